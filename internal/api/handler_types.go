package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/lunara/internal/i18n"
	"github.com/terraincognita07/lunara/internal/logger"
	"github.com/terraincognita07/lunara/internal/services"
)

type Handler struct {
	secretKey     []byte
	location      *time.Location
	cookieSecure  bool
	i18n          *i18n.Manager
	log           *logger.Logger
	now           func() time.Time
	checkIns      *services.CheckInService
	reports       *services.ReportService
	wearables     *services.WearableService
	reportLimiter *attemptLimiter
}

// Dependencies carries everything NewHandler wires. Reports may be nil, in
// which case the report endpoint answers 503.
type Dependencies struct {
	SecretKey    string
	Location     *time.Location
	CookieSecure bool
	I18n         *i18n.Manager
	Logger       *logger.Logger
	CheckIns     *services.CheckInService
	Reports      *services.ReportService
	Wearables    *services.WearableService
}

const (
	sessionTokenTTL     = 30 * 24 * time.Hour
	reportAttemptLimit  = 10
	reportAttemptWindow = 10 * time.Minute
)

type sessionClaims struct {
	ProfileID string `json:"pid"`
	jwt.RegisteredClaims
}
