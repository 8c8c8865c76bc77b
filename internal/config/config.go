package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/propnest/rental-backend/internal/utils"
)

type Config struct {
	AppName     string
	Env         string
	AppPort     string
	AppUrl      string
	FrontendURL string

	// Database
	DBUrl           string
	DBEncryptionKey []byte

	// Auth
	JWTSecret []byte

	// External services
	SendGridAPIKey   string
	TwilioAccountSID string
	TwilioAuthToken  string
	TidyCalAPIKey    string
	TidyCalBaseURL   string
	GMapsAPIKey      string

	AdminNotificationEmails []string
	CORSAllowedOrigins      []string
	DigestCronSpec          string

	SeedAdminEmail    string
	SeedAdminPassword string

	// LaunchDarkly flags
	LDFlag_SendgridFromEmail        string
	LDFlag_SendgridSandboxMode      bool
	LDFlag_TwilioFromPhone          string
	LDFlag_SeedDbWithTestData       bool
	LDFlag_CORSHighSecurity         bool
	LDFlag_GeocodeNewProperties     bool
	LDFlag_ChatbotAbandonAfterHours int
}

const (
	LDConnectionTimeout = 5 * time.Second
	defaultAppName      = "rental-service"
	defaultTidyCalURL   = "https://tidycal.com/api"
	defaultDigestCron   = "0 8 * * *"
)

// build-time overrides
var (
	AppName             string
	LDServerContextKey  = "rental-service"
	LDServerContextKind = "service"
)

// FlagSource is the subset of the LaunchDarkly client used for flag reads.
type FlagSource interface {
	BoolVariation(key string, context ldcontext.Context, defaultVal bool) (bool, error)
	StringVariation(key string, context ldcontext.Context, defaultVal string) (string, error)
	IntVariation(key string, context ldcontext.Context, defaultVal int) (int, error)
}

func LoadConfig() *Config {
	if AppName == "" {
		AppName = defaultAppName
	}

	env := os.Getenv("ENV")
	if env == "" {
		utils.Logger.Fatal("ENV env var is missing")
	}
	if env == "dev" || env == "local" {
		if err := godotenv.Load(); err != nil {
			utils.Logger.WithError(err).Debug("No .env file loaded")
		}
	}

	utils.Logger.Info("Loading config for app: ", AppName)

	appPort := requireEnv("APP_PORT")
	appUrl := requireEnv("APP_URL_FROM_ANYWHERE")
	frontendURL := requireEnv("FRONTEND_URL")

	secrets := loadSecrets(env)

	dbURL := secrets.require("DB_URL")
	dbEncKey, err := decodeEncryptionKey(secrets.require("DB_ENCRYPTION_KEY_BASE64"))
	if err != nil {
		utils.Logger.WithError(err).Fatal("DB_ENCRYPTION_KEY_BASE64 invalid")
	}
	jwtSecret := secrets.require("JWT_SECRET")

	ldClient := newLDClient(secrets.optional("LD_SDK_KEY"))
	defer ldClient.Close()

	flags := readFlags(ldClient, ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey))

	cfg := &Config{
		AppName:                 AppName,
		Env:                     env,
		AppPort:                 appPort,
		AppUrl:                  appUrl,
		FrontendURL:             strings.TrimRight(frontendURL, "/"),
		DBUrl:                   dbURL,
		DBEncryptionKey:         dbEncKey,
		JWTSecret:               []byte(jwtSecret),
		SendGridAPIKey:          secrets.optional("SENDGRID_API_KEY"),
		TwilioAccountSID:        secrets.optional("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:         secrets.optional("TWILIO_AUTH_TOKEN"),
		TidyCalAPIKey:           secrets.optional("TIDYCAL_API_KEY"),
		TidyCalBaseURL:          envOr("TIDYCAL_BASE_URL", defaultTidyCalURL),
		GMapsAPIKey:             secrets.optional("GMAPS_API_KEY"),
		AdminNotificationEmails: splitList(os.Getenv("ADMIN_NOTIFICATION_EMAILS")),
		CORSAllowedOrigins:      splitList(envOr("CORS_ALLOWED_ORIGINS", frontendURL)),
		DigestCronSpec:          envOr("DIGEST_CRON_SPEC", defaultDigestCron),
		SeedAdminEmail:          os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword:       secrets.optional("SEED_ADMIN_PASSWORD"),
	}
	flags.apply(cfg)
	return cfg
}

func (c *Config) Close() {}

// secretSet resolves secrets from Bitwarden first and the environment second.
type secretSet struct {
	source string
	values map[string]string
}

func loadSecrets(env string) secretSet {
	if strings.TrimSpace(os.Getenv("BWS_ACCESS_TOKEN")) == "" {
		utils.Logger.Info("BWS_ACCESS_TOKEN not set; reading secrets from environment")
		return secretSet{source: "environment"}
	}
	client, err := utils.NewBWSSecretsClient()
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to initialize BWSSecretsClient")
	}
	defer client.Close()

	projectName := fmt.Sprintf("%s-%s", AppName, env)
	values, err := client.GetBWSSecrets(projectName)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to fetch app secrets from BWS")
	}
	return secretSet{source: "BWS (" + projectName + ")", values: values}
}

func (s secretSet) optional(key string) string {
	if v, ok := s.values[key]; ok && v != "" {
		return v
	}
	return os.Getenv(key)
}

func (s secretSet) require(key string) string {
	v := s.optional(key)
	if v == "" {
		utils.Logger.Fatalf("%s not found in %s", key, s.sourceName())
	}
	return v
}

func (s secretSet) sourceName() string {
	if s.source == "" {
		return "environment"
	}
	return s.source
}

// newLDClient connects to LaunchDarkly, or returns an offline client that
// serves every flag's default when no SDK key is configured.
func newLDClient(sdkKey string) *ld.LDClient {
	if sdkKey == "" {
		utils.Logger.Warn("LD_SDK_KEY not set; LaunchDarkly running offline with flag defaults")
		client, err := ld.MakeCustomClient("", ld.Config{Offline: true}, 0)
		if err != nil {
			utils.Logger.WithError(err).Fatal("Failed to create offline LaunchDarkly client")
		}
		return client
	}
	client, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	if !client.Initialized() {
		client.Close()
		utils.Logger.Fatal("LaunchDarkly client failed to initialize")
	}
	return client
}

type flagValues struct {
	sendgridFromEmail        string
	sendgridSandboxMode      bool
	twilioFromPhone          string
	seedDbWithTestData       bool
	corsHighSecurity         bool
	geocodeNewProperties     bool
	chatbotAbandonAfterHours int
}

func readFlags(src FlagSource, ctx ldcontext.Context) flagValues {
	var f flagValues
	var err error

	if f.sendgridFromEmail, err = src.StringVariation("sendgrid_from_email", ctx, ""); err != nil {
		utils.Logger.WithError(err).Warn("Error retrieving sendgrid_from_email flag")
	}
	if f.sendgridFromEmail == "" {
		utils.Logger.Warn("sendgrid_from_email flag is empty, defaulting to no-reply@propnest.in")
		f.sendgridFromEmail = "no-reply@propnest.in"
	}

	if f.sendgridSandboxMode, err = src.BoolVariation("sendgrid_sandbox_mode", ctx, false); err != nil {
		utils.Logger.WithError(err).Warn("Error retrieving sendgrid_sandbox_mode flag")
	}

	if f.twilioFromPhone, err = src.StringVariation("twilio_from_phone", ctx, ""); err != nil {
		utils.Logger.WithError(err).Warn("Error retrieving twilio_from_phone flag")
	}

	if f.seedDbWithTestData, err = src.BoolVariation("seed_db_with_test_data", ctx, false); err != nil {
		utils.Logger.WithError(err).Warn("Error retrieving seed_db_with_test_data flag")
	}

	if f.corsHighSecurity, err = src.BoolVariation("cors_high_security", ctx, false); err != nil {
		utils.Logger.WithError(err).Warn("Error retrieving cors_high_security flag")
	}

	if f.geocodeNewProperties, err = src.BoolVariation("geocode_new_properties", ctx, false); err != nil {
		utils.Logger.WithError(err).Warn("Error retrieving geocode_new_properties flag")
	}

	if f.chatbotAbandonAfterHours, err = src.IntVariation("chatbot_abandon_after_hours", ctx, 24); err != nil {
		utils.Logger.WithError(err).Warn("Error retrieving chatbot_abandon_after_hours flag")
	}
	if f.chatbotAbandonAfterHours <= 0 {
		f.chatbotAbandonAfterHours = 24
	}

	utils.Logger.Debugf("flags: %+v", f)
	return f
}

func (f flagValues) apply(c *Config) {
	c.LDFlag_SendgridFromEmail = f.sendgridFromEmail
	c.LDFlag_SendgridSandboxMode = f.sendgridSandboxMode
	c.LDFlag_TwilioFromPhone = f.twilioFromPhone
	c.LDFlag_SeedDbWithTestData = f.seedDbWithTestData
	c.LDFlag_CORSHighSecurity = f.corsHighSecurity
	c.LDFlag_GeocodeNewProperties = f.geocodeNewProperties
	c.LDFlag_ChatbotAbandonAfterHours = f.chatbotAbandonAfterHours
}

func decodeEncryptionKey(b64 string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("expected 32-byte key, got %d bytes", len(key))
	}
	return key, nil
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", key)
	}
	return v
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
