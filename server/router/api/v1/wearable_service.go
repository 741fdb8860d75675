package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"

	"github.com/neuroalign/neuroalign/engine/biorhythm"
	"github.com/neuroalign/neuroalign/server/auth"
	"github.com/neuroalign/neuroalign/store"
)

// WearableConnect returns the provider consent URL. The state parameter
// carries a signed token so the callback can identify the user without a
// session cookie.
func (s *APIV1Service) WearableConnect(c echo.Context) error {
	if s.Wearable == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, errorResponse{Message: "no wearable provider configured"})
	}
	claims := auth.GetClaims(c)
	state, err := auth.SignToken(claims.UserID, claims.Username, s.Secret)
	if err != nil {
		return internalError(c, s.logger, "wearable-connect", err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"auth_url": s.Wearable.AuthURL(state),
	})
}

// WearableCallback completes the OAuth2 flow and stores the tokens.
func (s *APIV1Service) WearableCallback(c echo.Context) error {
	if s.Wearable == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, errorResponse{Message: "no wearable provider configured"})
	}
	code := c.QueryParam("code")
	if code == "" {
		return badRequest("missing authorization code")
	}
	claims, err := auth.ParseToken(c.QueryParam("state"), s.Secret)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, errorResponse{Message: "invalid state token"})
	}

	ctx := c.Request().Context()
	token, err := s.Wearable.Exchange(ctx, code)
	if err != nil {
		return badRequest(err.Error())
	}

	device, err := s.Store.UpsertWearableDevice(ctx, &store.WearableDevice{
		UserID:       claims.UserID,
		Provider:     s.Profile.WearableProvider,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
	})
	if err != nil {
		return internalError(c, s.logger, "wearable-callback", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"provider":     device.Provider,
		"connected_at": device.UpdatedAt,
	})
}

// WearableSync pulls the latest biosignal sample from the connected
// provider and feeds it through the energy predictor.
func (s *APIV1Service) WearableSync(c echo.Context) error {
	if s.Wearable == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, errorResponse{Message: "no wearable provider configured"})
	}
	ctx := c.Request().Context()
	claims := auth.GetClaims(c)

	device, err := s.Store.GetWearableDevice(ctx, claims.UserID, s.Profile.WearableProvider)
	if err != nil {
		return internalError(c, s.logger, "wearable-sync", err)
	}
	if device == nil {
		return echo.NewHTTPError(http.StatusNotFound, errorResponse{Message: "no connected device"})
	}

	sample, refreshed, err := s.Wearable.FetchLatest(ctx, &oauth2.Token{
		AccessToken:  device.AccessToken,
		RefreshToken: device.RefreshToken,
		Expiry:       device.TokenExpiry,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, errorResponse{Message: err.Error()})
	}

	// Persist the refreshed token so the next sync keeps working after
	// the original access token expires.
	if refreshed.AccessToken != device.AccessToken {
		device.AccessToken = refreshed.AccessToken
		device.RefreshToken = refreshed.RefreshToken
		device.TokenExpiry = refreshed.Expiry
		if _, err := s.Store.UpsertWearableDevice(ctx, device); err != nil {
			s.logger.Warn("failed to persist refreshed wearable token", "err", err)
		}
	}

	sess := s.sessionFor(c)
	started := time.Now()
	var pred biorhythm.Prediction
	sess.WithAnalyzer(func(a *biorhythm.Analyzer) {
		pred = a.PredictEnergy(sample)
	})
	s.Metrics.RecordBiosignal(time.Since(started))
	s.Metrics.SetEnergyLevel(pred.CurrentEnergy)

	return c.JSON(http.StatusOK, map[string]any{
		"sample":     sample,
		"prediction": pred,
	})
}
