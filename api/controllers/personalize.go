package controllers

import (
	"net/http"

	"github.com/demolux/storefront/api/middleware"
	"github.com/demolux/storefront/api/responses"
	"github.com/demolux/storefront/api/validators"
	"github.com/demolux/storefront/internal/personalize"
	pkgerrors "github.com/demolux/storefront/pkg/errors"
	"github.com/demolux/storefront/pkg/logger"
)

type trackEventRequest struct {
	Type               string   `json:"type" validate:"required,oneof=impression conversion"`
	VariantAliases     []string `json:"variantAliases"`
	ExperienceShortUID string   `json:"experienceShortUid" validate:"max=64"`
	Path               string   `json:"path" validate:"max=2048"`
}

// PersonalizeSegments returns the session's mock CDP profile; ?refresh=1 rerolls it.
func PersonalizeSegments(svc *personalize.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "personalize service unavailable"))
			return
		}
		profile, err := svc.Segments(ctx, middleware.CartSessionFromContext(ctx), validators.ParseQueryBool(r, "refresh"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// PersonalizeVariants computes the visitor's variants from the live attributes
// (profile plus query parameters) and stores them in the variants cookie. The
// cookie is left untouched while the SDK is not configured.
func PersonalizeVariants(svc *personalize.Service, secureCookie bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "personalize service unavailable"))
			return
		}
		res, err := svc.Resolve(ctx, middleware.CartSessionFromContext(ctx), r.URL.Query())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if svc.Configured() {
			personalize.WriteVariants(w, res.Variants, secureCookie)
		}
		responses.WriteSuccess(w, map[string]any{
			"configured":     svc.Configured(),
			"profile":        res.Profile,
			"attributes":     res.Attributes,
			"variantAliases": res.Variants,
		})
	}
}

// PersonalizeEvents records an impression or conversion. Aliases default to the
// variants cookie.
func PersonalizeEvents(svc *personalize.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "personalize service unavailable"))
			return
		}
		var payload trackEventRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		aliases := payload.VariantAliases
		if aliases == nil {
			aliases = personalize.VariantsFromContext(ctx)
		}

		tracked, err := svc.Track(ctx, personalize.Event{
			Type:               personalize.EventType(payload.Type),
			SessionID:          middleware.CartSessionFromContext(ctx),
			Aliases:            aliases,
			ExperienceShortUID: payload.ExperienceShortUID,
			Path:               payload.Path,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]bool{"tracked": tracked})
	}
}
