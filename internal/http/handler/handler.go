package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/calls"
	"loopline.app/server/internal/service"
	"loopline.app/server/internal/storage"
)

var errStatus = map[error]int{
	service.ErrEmptyContent:        http.StatusBadRequest,
	service.ErrBadReactionKind:     http.StatusBadRequest,
	service.ErrBadEmploymentType:   http.StatusBadRequest,
	service.ErrBadApplicationState: http.StatusBadRequest,
	service.ErrBadListingStatus:    http.StatusBadRequest,
	service.ErrBadPrice:            http.StatusBadRequest,
	service.ErrBadRSVPStatus:       http.StatusBadRequest,
	service.ErrBadEntityType:       http.StatusBadRequest,
	service.ErrNoParticipants:      http.StatusBadRequest,
	service.ErrSelfFollow:          http.StatusBadRequest,
	service.ErrEventInPast:         http.StatusBadRequest,
	calls.ErrSelfCall:              http.StatusBadRequest,
	calls.ErrBadSignalType:         http.StatusBadRequest,

	service.ErrInvalidCredentials: http.StatusUnauthorized,
	service.ErrSessionExpired:     http.StatusUnauthorized,

	service.ErrNotAuthor:          http.StatusForbidden,
	service.ErrNotGroupMember:     http.StatusForbidden,
	service.ErrNotGroupOwner:      http.StatusForbidden,
	service.ErrOwnerLeaving:       http.StatusForbidden,
	service.ErrNotPageOwner:       http.StatusForbidden,
	service.ErrNotCompanyOwner:    http.StatusForbidden,
	service.ErrNotResumeOwner:     http.StatusForbidden,
	service.ErrNotSeller:          http.StatusForbidden,
	service.ErrNotHost:            http.StatusForbidden,
	service.ErrNotConvParticipant: http.StatusForbidden,
	calls.ErrNotParticipant:       http.StatusForbidden,

	service.ErrUserNotFound:         http.StatusNotFound,
	service.ErrPostNotFound:         http.StatusNotFound,
	service.ErrCommentNotFound:      http.StatusNotFound,
	service.ErrConversationNotFound: http.StatusNotFound,
	service.ErrGroupNotFound:        http.StatusNotFound,
	service.ErrPageNotFound:         http.StatusNotFound,
	service.ErrCompanyNotFound:      http.StatusNotFound,
	service.ErrJobNotFound:          http.StatusNotFound,
	service.ErrApplicationNotFound:  http.StatusNotFound,
	service.ErrResumeNotFound:       http.StatusNotFound,
	service.ErrListingNotFound:      http.StatusNotFound,
	service.ErrReelNotFound:         http.StatusNotFound,
	service.ErrEventNotFound:        http.StatusNotFound,
	service.ErrReportNotFound:       http.StatusNotFound,

	service.ErrEmailTaken: http.StatusConflict,
	service.ErrJobClosed:  http.StatusConflict,
	calls.ErrNotRinging:   http.StatusConflict,

	storage.ErrTooLarge: http.StatusRequestEntityTooLarge,
}

// writeError translates service sentinel errors to HTTP status codes.
// Anything unmapped is a 500 with a generic body; the real cause is logged.
func writeError(c *gin.Context, err error) {
	for sentinel, status := range errStatus {
		if errors.Is(err, sentinel) {
			c.JSON(status, gin.H{"error": sentinel.Error()})
			return
		}
	}

	slog.ErrorContext(c.Request.Context(), "request handler error",
		"error", err,
		"path", c.Request.URL.Path)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// pathID parses an int64 path parameter; it writes the 400 itself.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryLimit(c *gin.Context) int32 {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 32)
	if err != nil {
		return 0
	}
	return int32(limit)
}

func queryBefore(c *gin.Context) time.Time {
	raw := c.Query("before")
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
