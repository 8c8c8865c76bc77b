package config

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFlags struct {
	bools   map[string]bool
	strings map[string]string
	ints    map[string]int
	err     error
}

func (f fakeFlags) BoolVariation(key string, _ ldcontext.Context, def bool) (bool, error) {
	if v, ok := f.bools[key]; ok {
		return v, f.err
	}
	return def, f.err
}

func (f fakeFlags) StringVariation(key string, _ ldcontext.Context, def string) (string, error) {
	if v, ok := f.strings[key]; ok {
		return v, f.err
	}
	return def, f.err
}

func (f fakeFlags) IntVariation(key string, _ ldcontext.Context, def int) (int, error) {
	if v, ok := f.ints[key]; ok {
		return v, f.err
	}
	return def, f.err
}

func TestReadFlagsDefaults(t *testing.T) {
	f := readFlags(fakeFlags{}, ldcontext.New("test"))
	assert.Equal(t, "no-reply@propnest.in", f.sendgridFromEmail)
	assert.Equal(t, 24, f.chatbotAbandonAfterHours)
	assert.False(t, f.corsHighSecurity)
}

func TestReadFlagsValues(t *testing.T) {
	f := readFlags(fakeFlags{
		bools:   map[string]bool{"cors_high_security": true, "geocode_new_properties": true},
		strings: map[string]string{"sendgrid_from_email": "team@example.com", "twilio_from_phone": "+15550001111"},
		ints:    map[string]int{"chatbot_abandon_after_hours": 6},
	}, ldcontext.New("test"))

	var c Config
	f.apply(&c)
	assert.Equal(t, "team@example.com", c.LDFlag_SendgridFromEmail)
	assert.Equal(t, "+15550001111", c.LDFlag_TwilioFromPhone)
	assert.True(t, c.LDFlag_CORSHighSecurity)
	assert.True(t, c.LDFlag_GeocodeNewProperties)
	assert.Equal(t, 6, c.LDFlag_ChatbotAbandonAfterHours)
}

func TestReadFlagsErrorsFallBack(t *testing.T) {
	f := readFlags(fakeFlags{err: errors.New("ld down"), ints: map[string]int{"chatbot_abandon_after_hours": -1}}, ldcontext.New("test"))
	assert.Equal(t, 24, f.chatbotAbandonAfterHours)
}

func TestOfflineLDClientServesDefaults(t *testing.T) {
	client, err := ld.MakeCustomClient("", ld.Config{Offline: true}, 0)
	require.NoError(t, err)
	defer client.Close()

	f := readFlags(client, ldcontext.New("test"))
	assert.Equal(t, 24, f.chatbotAbandonAfterHours)
	assert.False(t, f.seedDbWithTestData)
}

func TestDecodeEncryptionKey(t *testing.T) {
	good := base64.StdEncoding.EncodeToString(make([]byte, 32))
	key, err := decodeEncryptionKey(good)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	_, err = decodeEncryptionKey(base64.StdEncoding.EncodeToString(make([]byte, 16)))
	assert.Error(t, err)

	_, err = decodeEncryptionKey("%%%")
	assert.Error(t, err)
}

func TestSecretSetPrefersBWS(t *testing.T) {
	t.Setenv("TIDYCAL_API_KEY", "from-env")
	t.Setenv("GMAPS_API_KEY", "gmaps-env")
	s := secretSet{source: "BWS", values: map[string]string{"TIDYCAL_API_KEY": "from-bws"}}
	assert.Equal(t, "from-bws", s.optional("TIDYCAL_API_KEY"))
	assert.Equal(t, "gmaps-env", s.optional("GMAPS_API_KEY"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, splitList(" a@x.com, ,b@x.com "))
	assert.Nil(t, splitList(""))
}
