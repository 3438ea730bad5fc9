package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/app/services"
	"github.com/yiconnect/backend/internal/app/workflow"
	"github.com/yiconnect/backend/internal/middleware"
)

// TrainerController handles trainer profile and assignment endpoints
type TrainerController struct {
	trainerService services.TrainerService
}

// NewTrainerController creates a new TrainerController
func NewTrainerController(trainerService services.TrainerService) *TrainerController {
	return &TrainerController{trainerService: trainerService}
}

// UpsertProfile creates or updates the caller's trainer profile
func (c *TrainerController) UpsertProfile(ctx *gin.Context) {
	var req dto.TrainerProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.trainerService.UpsertProfile(ctx, middleware.CurrentUserID(ctx), req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Profile saved"}))
}

// GetProfile returns the caller's trainer profile
func (c *TrainerController) GetProfile(ctx *gin.Context) {
	resp, err := c.trainerService.GetProfile(ctx, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// GetProfileByUser returns another trainer's profile
func (c *TrainerController) GetProfileByUser(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	resp, err := c.trainerService.GetProfile(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// Select assigns a trainer to an event with a computed match score
func (c *TrainerController) Select(ctx *gin.Context) {
	var req dto.SelectTrainerRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.trainerService.Select(ctx, middleware.CurrentActor(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp))
}

// Invite sends the invitation email for a selected assignment
func (c *TrainerController) Invite(ctx *gin.Context) {
	c.transition(ctx, c.trainerService.Invite)
}

// RespondToInvitation records the trainer's answer via the emailed token
func (c *TrainerController) RespondToInvitation(ctx *gin.Context) {
	var req dto.RespondToInvitationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.trainerService.RespondByToken(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// Confirm locks in an accepted assignment
func (c *TrainerController) Confirm(ctx *gin.Context) {
	c.transition(ctx, c.trainerService.Confirm)
}

// Complete marks a confirmed assignment as delivered
func (c *TrainerController) Complete(ctx *gin.Context) {
	c.transition(ctx, c.trainerService.Complete)
}

// Cancel cancels an assignment
func (c *TrainerController) Cancel(ctx *gin.Context) {
	c.transition(ctx, c.trainerService.Cancel)
}

// RateTrainer records the coordinator's rating of the trainer
func (c *TrainerController) RateTrainer(ctx *gin.Context) {
	c.rate(ctx, c.trainerService.RateTrainer)
}

// RateCoordinator records the trainer's rating of the coordinator
func (c *TrainerController) RateCoordinator(ctx *gin.Context) {
	c.rate(ctx, c.trainerService.RateCoordinator)
}

// ListByEvent returns all assignments for an event
func (c *TrainerController) ListByEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	assignments, err := c.trainerService.ListByEvent(ctx, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(assignments))
}

// ListMine returns the caller's own assignments
func (c *TrainerController) ListMine(ctx *gin.Context) {
	assignments, err := c.trainerService.ListByTrainer(ctx, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(assignments))
}

func (c *TrainerController) transition(ctx *gin.Context, action func(ctx context.Context, id int64, actor workflow.Actor) (*dto.TrainerAssignmentResponse, error)) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := action(ctx, id, middleware.CurrentActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

func (c *TrainerController) rate(ctx *gin.Context, action func(ctx context.Context, id int64, actor workflow.Actor, rating int) error) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RateAssignmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := action(ctx, id, middleware.CurrentActor(ctx), req.Rating); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Rating recorded"}))
}
