package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vibast-solutions/ms-go-contacts/app/service"
	"github.com/vibast-solutions/ms-go-contacts/app/types"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const msgInvalidBody = "invalid request body"

type RecordController struct {
	recordService service.RecordService
	listLimit     int
}

func NewRecordController(recordService service.RecordService, listLimit int) *RecordController {
	if listLimit <= 0 {
		listLimit = 100
	}
	return &RecordController{recordService: recordService, listLimit: listLimit}
}

func (c *RecordController) Add(ctx echo.Context) error {
	req, err := types.NewAddRecordRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind add request")
		return ctx.JSON(http.StatusBadRequest, &types.AddRecordResponse{
			Status: types.StatusInvalid,
			Errors: []string{msgInvalidBody},
		})
	}

	logrus.WithField("email", req.Email).Info("Add request received")
	record, err := c.recordService.Add(ctx.Request().Context(), req)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			logrus.WithField("errors", validationErr.Errors).Debug("Add validation failed")
			return ctx.JSON(http.StatusBadRequest, &types.AddRecordResponse{
				Status: types.StatusInvalid,
				Errors: validationErr.Errors,
			})
		}

		var duplicateErr *service.DuplicateError
		if errors.As(err, &duplicateErr) {
			message := "Record already exists. No new entry created."
			if duplicateErr.ByConstraint {
				message = "Duplicate detected by database constraint"
			}
			logrus.WithFields(logrus.Fields{
				"email":         req.Email,
				"by_constraint": duplicateErr.ByConstraint,
			}).Warn("Add rejected: duplicate record")
			return ctx.JSON(http.StatusOK, &types.AddRecordResponse{
				Status:  types.StatusDuplicate,
				Message: message,
				Record:  types.NewRecordResponse(duplicateErr.Existing),
			})
		}

		return c.addError(ctx, err)
	}

	logrus.WithFields(logrus.Fields{
		"record_id": record.ID,
		"email":     record.Email,
	}).Info("Record created")

	return ctx.JSON(http.StatusCreated, &types.AddRecordResponse{
		Status:  types.StatusCreated,
		Success: true,
		Message: "New record created successfully",
		Record:  types.NewRecordResponse(record),
	})
}

func (c *RecordController) addError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	if errors.Is(err, service.ErrStorageUnavailable) {
		status = http.StatusServiceUnavailable
	}
	logrus.WithError(err).Error("Add failed")
	return ctx.JSON(status, &types.AddRecordResponse{
		Status: types.StatusError,
		Errors: []string{fmt.Sprintf("Database error: %s", err.Error())},
	})
}

func (c *RecordController) Validate(ctx echo.Context) error {
	req, err := types.NewAddRecordRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind validate request")
		return ctx.JSON(http.StatusBadRequest, &types.ValidateRecordResponse{
			Status: types.StatusInvalid,
			Errors: []string{msgInvalidBody},
		})
	}

	err = c.recordService.Check(ctx.Request().Context(), req)
	if err == nil {
		return ctx.JSON(http.StatusOK, &types.ValidateRecordResponse{
			Status:  types.StatusUnique,
			Valid:   true,
			Message: "Data is unique and valid. Ready to insert.",
		})
	}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return ctx.JSON(http.StatusBadRequest, &types.ValidateRecordResponse{
			Status: types.StatusInvalid,
			Errors: validationErr.Errors,
		})
	}

	var duplicateErr *service.DuplicateError
	if errors.As(err, &duplicateErr) {
		return ctx.JSON(http.StatusOK, &types.ValidateRecordResponse{
			Status:          types.StatusDuplicate,
			Message:         "A record with this email or phone number already exists",
			DuplicateRecord: types.NewRecordResponse(duplicateErr.Existing),
		})
	}

	status := http.StatusInternalServerError
	if errors.Is(err, service.ErrStorageUnavailable) {
		status = http.StatusServiceUnavailable
	}
	logrus.WithError(err).Error("Validate failed")
	return ctx.JSON(status, &types.ValidateRecordResponse{
		Status: types.StatusError,
		Errors: []string{fmt.Sprintf("Server error: %s", err.Error())},
	})
}

func (c *RecordController) List(ctx echo.Context) error {
	records, err := c.recordService.ListRecent(ctx.Request().Context(), c.listLimit)
	if err != nil {
		logrus.WithError(err).Error("List records failed")
		return ctx.JSON(storageStatus(err), &types.DataResponse{
			Data:  []*types.RecordResponse{},
			Error: err.Error(),
		})
	}

	data := make([]*types.RecordResponse, 0, len(records))
	for _, record := range records {
		data = append(data, types.NewRecordResponse(record))
	}

	return ctx.JSON(http.StatusOK, &types.DataResponse{
		Count: len(data),
		Data:  data,
	})
}

func (c *RecordController) Stats(ctx echo.Context) error {
	stats, err := c.recordService.Stats(ctx.Request().Context())
	if err != nil {
		logrus.WithError(err).Error("Stats failed")
		return ctx.JSON(storageStatus(err), &types.StatsResponse{
			Efficiency: "100%",
			Error:      err.Error(),
		})
	}

	return ctx.JSON(http.StatusOK, &types.StatsResponse{
		TotalAttempts:       stats.TotalAttempts,
		UniqueEntries:       stats.UniqueEntries,
		DuplicatesPrevented: stats.DuplicatesPrevented,
		Efficiency:          stats.Efficiency,
	})
}

func (c *RecordController) Clear(ctx echo.Context) error {
	logrus.Warn("Clear request received")
	result, err := c.recordService.Clear(ctx.Request().Context())
	if err != nil {
		logrus.WithError(err).Error("Clear failed")
		return ctx.JSON(storageStatus(err), &types.ClearResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	logrus.WithFields(logrus.Fields{
		"records_removed":  result.RecordsRemoved,
		"attempts_removed": result.AttemptsRemoved,
	}).Warn("Database cleared")

	return ctx.JSON(http.StatusOK, &types.ClearResponse{
		Success: true,
		Message: fmt.Sprintf("Database cleared. %d entries removed.", result.RecordsRemoved),
	})
}

func storageStatus(err error) int {
	if errors.Is(err, service.ErrStorageUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
