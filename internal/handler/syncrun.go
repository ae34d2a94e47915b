package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/logisticair/crewops/internal/model"
	"github.com/logisticair/crewops/internal/queue"
	"github.com/logisticair/crewops/internal/repository"
	queuePublisher "github.com/logisticair/crewops/internal/service"
)

// SyncRunHandler lists the synchronization audit trail and lets an
// operator trigger a one-shot re-sync.
type SyncRunHandler struct {
	Runs *repository.SyncRunRepo
	Log  *zap.Logger
}

func NewSyncRunHandler(runs *repository.SyncRunRepo, log *zap.Logger) *SyncRunHandler {
	return &SyncRunHandler{Runs: runs, Log: log}
}

// List returns runs newest first, optionally narrowed by status.
func (h *SyncRunHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := c.QueryParam("status")
	if status != "" {
		switch model.SyncRunStatus(status) {
		case model.SyncOK, model.SyncPartial, model.SyncError:
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
	}

	runs, err := h.Runs.List(ctx, model.SyncRunStatus(status))
	if err != nil {
		h.Log.Error("list sync runs failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list sync runs failed"})
	}
	return c.JSON(http.StatusOK, runs)
}

// Trigger publishes a sync request to the broker.  The run itself is
// executed by the background consumer; this endpoint only enqueues.
func (h *SyncRunHandler) Trigger(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	requestedBy, _ := c.Get("user_id").(string)
	event := queue.SyncRequestedEvent{
		RequestID:   uuid.NewString(),
		RequestedBy: requestedBy,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := queuePublisher.PublishSyncRequested(ctx, h.Log, event); err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "could not enqueue sync request"})
	}

	return c.JSON(http.StatusAccepted, echo.Map{
		"message":    "synchronization requested",
		"request_id": event.RequestID,
	})
}

// Export streams the audit trail as an .xlsx workbook.
func (h *SyncRunHandler) Export(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	runs, err := h.Runs.List(ctx, "")
	if err != nil {
		h.Log.Error("export sync runs failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	const sheet = "SyncRuns"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"ID", "Executed At", "Data Source", "Read", "Updated", "Created", "Errors", "Status", "Message"}
	for i, head := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, head)
	}
	for r, run := range runs {
		row := []any{
			run.ID,
			run.ExecutedAt.Format(time.RFC3339),
			run.DataSource,
			run.FlightsRead,
			run.FlightsUpdated,
			run.FlightsCreated,
			run.Errors,
			string(run.Status),
			run.Message,
		}
		for i, v := range row {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("sync-runs-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	if err := f.Write(c.Response()); err != nil {
		h.Log.Error("write workbook failed", zap.Error(err))
		return err
	}
	return nil
}
