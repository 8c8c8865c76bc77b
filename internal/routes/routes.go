package routes

const (
	Health  = "/health"
	Metrics = "/metrics"

	// auth
	AuthSignup             = "/api/auth/signup"
	AuthLogin              = "/api/auth/login"
	AuthLogout             = "/api/auth/logout"
	AuthForgotPassword     = "/api/auth/forgot-password"
	AuthResetPassword      = "/api/auth/reset-password/{token}"
	AuthVerifyEmail        = "/api/auth/verify-email/{token}"
	AuthResendVerification = "/api/auth/resend-verification"
	UserProfile            = "/api/user/profile"

	// properties
	Properties             = "/api/properties"
	PropertyByID           = "/api/properties/{id}"
	PropertyCoverImage     = "/api/properties/{id}/cover-image"
	PropertyCoverImagesAll = "/api/properties/cover-images/all"
	AdminPropertyAdd       = "/api/admin/properties/add"
	AdminPropertyByID      = "/api/admin/properties/{id}"
	AdminPropertyStats     = "/api/admin/properties/stats"
	AdminPropertyRecent    = "/api/admin/properties/recent"

	// team
	AdminTeamAdd   = "/api/admin/team/add"
	AdminTeamByID  = "/api/admin/team/{id}"
	PublicTeam     = "/api/public/team"
	PublicTeamByID = "/api/public/team/{id}"

	// contact
	PublicContact      = "/api/public/contact"
	AdminContacts      = "/api/admin/contacts"
	AdminContactByID   = "/api/admin/contacts/{id}"
	AdminContactReply  = "/api/admin/contacts/{id}/reply"
	AdminContactStatus = "/api/admin/contacts/{id}/status"

	// notices
	AdminNotices            = "/api/admin/notices"
	AdminNoticeByID         = "/api/admin/notices/{id}"
	AdminNoticeToggleActive = "/api/admin/notices/{id}/toggle-active"
	AdminNoticeSetActive    = "/api/admin/notices/{id}/set-active"
	AdminNoticeDownload     = "/api/admin/notices/{id}/download"
	PublicNoticesActive     = "/api/public/notices/active"
	NoticeDownload          = "/api/notices/{id}/download"

	// maintenance
	AdminMaintenance         = "/api/admin/maintenance-requests"
	AdminMaintenanceJSON     = "/api/admin/maintenance-requests/json"
	AdminMaintenanceByStatus = "/api/admin/maintenance-requests/status/{status}"
	AdminMaintenanceByID     = "/api/admin/maintenance-requests/{id}"
	AdminMaintenanceSend     = "/api/admin/maintenance-requests/{id}/send-to-contractor"

	// rental applications
	ApplicationSubmit      = "/api/applications/submit"
	AdminApplications      = "/api/admin/applications"
	AdminApplicationByID   = "/api/admin/applications/{id}"
	AdminApplicationReply  = "/api/admin/applications/{id}/reply"
	AdminApplicationStatus = "/api/admin/applications/{id}/status/{status}"

	// meetings
	MeetingSchedule      = "/api/meetings/schedule"
	AdminMeetings        = "/api/admin/meetings"
	AdminMeetingByID     = "/api/admin/meetings/{id}"
	AdminMeetingReply    = "/api/admin/meetings/{id}/reply"
	AdminMeetingComplete = "/api/admin/meetings/{id}/complete"

	// screening
	AdminScreeningQuestionsBulk = "/api/admin/screening/questions/bulk"
	AdminScreeningQuestionByID  = "/api/admin/screening/questions/{id}"
	PublicScreeningQuestions    = "/api/public/screening/questions"
	PublicScreeningResponses    = "/api/public/screening/responses"
	AdminScreeningResponses     = "/api/admin/screening/responses"
	AdminScreeningResponseByID  = "/api/admin/screening/responses/{id}"
	AdminScreeningResponseReply = "/api/admin/screening/responses/{id}/reply"

	// recommendations
	RecommendationGenerate    = "/api/recommendations/generate/{screening_id}"
	RecommendationsByUser     = "/api/recommendations/user/{email}"
	RecommendationByID        = "/api/recommendations/{id}"
	RecommendationRespond     = "/api/recommendations/{id}/respond"
	RecommendationSendEmail   = "/api/recommendations/{id}/send-email"
	AdminRecommendations      = "/api/admin/recommendations"
	AdminRecommendationReview = "/api/admin/recommendations/{id}/review"

	// chatbot
	ChatbotStart              = "/api/chatbot/start"
	ChatbotRespond            = "/api/chatbot/respond"
	ChatbotSatisfaction       = "/api/chatbot/satisfaction"
	AdminChatbotConversations = "/api/admin/chatbot/conversations"
	AdminChatbotConversation  = "/api/admin/chatbot/conversations/{id}"
	AdminChatbotStats         = "/api/admin/chatbot/stats"

	// tidycal
	TidyCalBookingTypes = "/api/tidycal/booking-types"
)
