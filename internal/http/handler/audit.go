package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"lawfirm-cms/internal/audit"

	"github.com/labstack/echo/v4"
)

// AuditHandler serves the activity log to signed-in admins.
type AuditHandler struct {
	reader AuditReader
}

func NewAuditHandler(reader AuditReader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// List returns events newest first. Supported query parameters: resource,
// entity, action, status, since (RFC 3339), limit and offset.
func (h *AuditHandler) List(c echo.Context) error {
	filter, badParam := parseAuditFilter(c)
	if badParam != "" {
		return respondError(c, http.StatusBadRequest, fmt.Sprintf(msgInvalidQueryFmt, badParam))
	}

	events, err := h.reader.Query(c.Request().Context(), filter)
	if err != nil {
		c.Logger().Errorf("audit query failed: %v", err)
		return respondError(c, http.StatusInternalServerError, msgAuditQueryFail)
	}
	if events == nil {
		events = []*audit.Event{}
	}
	return respondData(c, http.StatusOK, events, "")
}

// parseAuditFilter returns the name of the first malformed parameter, if any.
func parseAuditFilter(c echo.Context) (audit.QueryFilter, string) {
	filter := audit.QueryFilter{
		Resource: c.QueryParam(queryResource),
		EntityID: c.QueryParam(queryEntity),
		Action:   audit.Action(c.QueryParam(queryAction)),
		Status:   audit.Status(c.QueryParam(queryStatus)),
	}

	if raw := c.QueryParam(querySince); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, querySince
		}
		filter.StartTime = &since
	}
	for name, dst := range map[string]*int{queryLimit: &filter.Limit, queryOffset: &filter.Offset} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, name
		}
		*dst = n
	}
	return filter, ""
}
