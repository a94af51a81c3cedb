package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/render"
	"github.com/Zachkp/portfolio/internal/view"
	"github.com/Zachkp/portfolio/internal/visitors"
)

// maxRecentVisits caps the recent query parameter of /api/visits.
const maxRecentVisits = 50

const (
	msgContactSent        = "Merci pour votre message ! Je vous répondrai rapidement."
	msgContactInvalid     = "Merci de renseigner votre nom, un email valide et un message."
	msgContactUnavailable = "Le formulaire de contact n'est pas disponible pour le moment. Écrivez-moi directement par email."
	msgContactFailed      = "Désolé, une erreur est survenue lors de l'envoi. Merci de réessayer plus tard."
)

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, render.PageTemplate, s.renderer.PageData(s.profile, view.Initial()))
}

func (s *Server) handleContactForm(c *gin.Context) {
	c.HTML(http.StatusOK, render.ContactTemplate, nil)
}

// handleContact answers with an HTML fragment for htmx to swap in. Every
// outcome is a 200 so htmx swaps the message.
func (s *Server) handleContact(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		s.contactError(c, "invalid", msgContactInvalid)
		return
	}

	err := contact.Submit(c.Request.Context(), s.relay, form)
	switch {
	case err == nil:
		s.metrics.ObserveContact("sent")
		s.log.Info(c.Request.Context(), "contact message sent")
		c.HTML(http.StatusOK, render.ContactSuccessTemplate, gin.H{"success": msgContactSent})
	case errors.Is(err, contact.ErrInvalidForm):
		s.contactError(c, "invalid", msgContactInvalid)
	case errors.Is(err, contact.ErrNotConfigured):
		s.contactError(c, "unavailable", msgContactUnavailable)
	default:
		s.log.Error(c.Request.Context(), "contact message failed", logger.Error(err))
		s.contactError(c, "failed", msgContactFailed)
	}
}

func (s *Server) contactError(c *gin.Context, outcome, msg string) {
	s.metrics.ObserveContact(outcome)
	c.HTML(http.StatusOK, render.ContactErrorTemplate, gin.H{"error": msg})
}

func (s *Server) handleProfile(c *gin.Context) {
	c.JSON(http.StatusOK, s.profile)
}

type visitsResponse struct {
	*visitors.Summary
	Recent []visitors.Visit `json:"recent,omitempty"`
}

// handleVisits serves the visit summary when tracking is on and
// public_visits is set. ?recent=N adds the N newest visits.
func (s *Server) handleVisits(c *gin.Context) {
	if s.visitors == nil || !s.cfg.PublicVisits {
		c.JSON(http.StatusNotFound, gin.H{"error": "visit stats disabled"})
		return
	}

	recent := 0
	if v := c.Query("recent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recent must be a non-negative integer"})
			return
		}
		recent = min(n, maxRecentVisits)
	}

	ctx := c.Request.Context()
	sum, err := s.visitors.Summary(ctx)
	if err != nil {
		s.log.Error(ctx, "visit summary", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load visit summary"})
		return
	}
	resp := visitsResponse{Summary: sum}
	if recent > 0 {
		if resp.Recent, err = s.visitors.Recent(ctx, recent); err != nil {
			s.log.Error(ctx, "recent visits", logger.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recent visits"})
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}
