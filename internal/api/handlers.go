package api

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/lunara/internal/logger"
)

func NewHandler(deps Dependencies) (*Handler, error) {
	if strings.TrimSpace(deps.SecretKey) == "" {
		return nil, errors.New("secret key is required")
	}
	if deps.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}
	if deps.CheckIns == nil || deps.Wearables == nil {
		return nil, errors.New("check-in and wearable services are required")
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}

	return &Handler{
		secretKey:     []byte(deps.SecretKey),
		location:      deps.Location,
		cookieSecure:  deps.CookieSecure,
		i18n:          deps.I18n,
		log:           deps.Logger.With("component", "api"),
		now:           time.Now,
		checkIns:      deps.CheckIns,
		reports:       deps.Reports,
		wearables:     deps.Wearables,
		reportLimiter: newAttemptLimiter(reportAttemptLimit, reportAttemptWindow),
	}, nil
}
