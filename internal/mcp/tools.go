package mcp

import (
	"context"
	"errors"
	"strconv"

	"github.com/claude/mapty/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// formText renders a tool argument the way a user would have typed it into
// the form. Numbers and strings are accepted; anything else is blank.
func formText(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List every stored workout, oldest first. Running workouts carry cadence and pace (min/km); cycling workouts carry elevationGain and speed (km/h)."),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get one workout by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
)

var toolAddWorkout = mcp.NewTool("add_workout",
	mcp.WithDescription("Log a workout at a map position. Distance, duration and the type's extra field must be positive numbers; elevation for cycling may be zero or negative."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Workout type"), mcp.Enum("running", "cycling")),
	mcp.WithNumber("lat", mcp.Required(), mcp.Description("Latitude of the workout")),
	mcp.WithNumber("lng", mcp.Required(), mcp.Description("Longitude of the workout")),
	mcp.WithNumber("distance", mcp.Required(), mcp.Description("Distance in km")),
	mcp.WithNumber("duration", mcp.Required(), mcp.Description("Duration in minutes")),
	mcp.WithNumber("cadence", mcp.Description("Steps per minute. Required for running.")),
	mcp.WithNumber("elevation", mcp.Description("Elevation gain in meters. Required for cycling.")),
)

var toolDeleteWorkout = mcp.NewTool("delete_workout",
	mcp.WithDescription("Delete a workout with its list entry and map marker."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
)

var toolSelectWorkout = mcp.NewTool("select_workout",
	mcp.WithDescription("Pan the map to a workout's position."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := h.ds.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	rec, err := h.ds.Workout(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return mcp.NewToolResultError("workout not found: " + id), nil
	}
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rec)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) addWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}
	lat, err := req.RequireFloat("lat")
	if err != nil {
		return mcp.NewToolResultError("lat parameter is required"), nil
	}
	lng, err := req.RequireFloat("lng")
	if err != nil {
		return mcp.NewToolResultError("lng parameter is required"), nil
	}

	args := req.GetArguments()
	form := models.Form{
		Type:      kind,
		Distance:  formText(args, "distance"),
		Duration:  formText(args, "duration"),
		Cadence:   formText(args, "cadence"),
		Elevation: formText(args, "elevation"),
	}

	rec, err := h.ds.Create(ctx, models.Coords{Lat: lat, Lng: lng}, form)
	switch {
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrUnknownKind):
		return mcp.NewToolResultError("invalid workout: " + err.Error()), nil
	case err != nil:
		h.log.Error("mcp add_workout", "error", err)
		return mcp.NewToolResultError("create failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rec)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) deleteWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	err = h.ds.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return mcp.NewToolResultError("workout not found: " + id), nil
	}
	if err != nil {
		h.log.Error("mcp delete_workout", "error", err)
		return mcp.NewToolResultError("delete failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText("deleted " + id), nil
}

func (h *handlers) selectWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	err = h.ds.Select(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return mcp.NewToolResultError("workout not found: " + id), nil
	case errors.Is(err, ErrMapNotReady):
		return mcp.NewToolResultError("the map is not loaded; position was unavailable"), nil
	case err != nil:
		h.log.Error("mcp select_workout", "error", err)
		return mcp.NewToolResultError("select failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText("selected " + id), nil
}
