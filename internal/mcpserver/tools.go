package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/planr/internal/plan"
)

var listSteps = []string{plan.StepUsers, plan.StepTasks, plan.StepMilestones, plan.StepShopping}

// registerTools registers the wizard navigation and plan editing tools.
func (s *Server) registerTools() error {
	s.mcpServer.AddTool(
		mcp.NewTool("wizard-status",
			mcp.WithDescription("Show the active step, progress, completed steps and what blocks moving forward"),
		),
		s.handleStatus,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-next",
			mcp.WithDescription("Advance to the next step if the active step is valid; on the last step this completes the wizard"),
		),
		s.handleNext,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-prev",
			mcp.WithDescription("Go back one step"),
		),
		s.handlePrev,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-goto",
			mcp.WithDescription("Jump to a step by id or 1-based number"),
			mcp.WithString("step", mcp.Required(),
				mcp.Description("Step id (config, users, tasks, milestones, shopping) or 1-based step number"),
			),
		),
		s.handleGoTo,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-skip",
			mcp.WithDescription("Skip optional steps up to the next required one; completes the wizard when only optional steps remain"),
		),
		s.handleSkip,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-reset",
			mcp.WithDescription("Return to the first step and clear completed steps; plan data is kept"),
		),
		s.handleReset,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("plan-configure",
			mcp.WithDescription("Update the general plan settings; omitted fields are left unchanged"),
			mcp.WithString("name", mcp.Description("Plan name")),
			mcp.WithString("period", mcp.Description("Plan period"), mcp.Enum(string(plan.Weekly), string(plan.Monthly))),
			mcp.WithString("start_date", mcp.Description("First day of the period, YYYY-MM-DD")),
			mcp.WithString("notes", mcp.Description("Free-form notes")),
		),
		s.handleConfigure,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("plan-add",
			mcp.WithDescription("Append an entry to a list step. Fields by step: users [name, role], tasks [title, assignee, day], milestones [title, due], shopping [item, quantity]; the first field is required"),
			mcp.WithString("step", mcp.Required(), mcp.Enum(listSteps...)),
			mcp.WithArray("fields", mcp.Required(),
				mcp.Description("Field values in order"),
				mcp.WithStringItems(),
			),
		),
		s.handleAdd,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("plan-remove",
			mcp.WithDescription("Remove an entry from a list step"),
			mcp.WithString("step", mcp.Required(), mcp.Enum(listSteps...)),
			mcp.WithNumber("index", mcp.Required(), mcp.Description("1-based entry number")),
		),
		s.handleRemove,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("plan-show",
			mcp.WithDescription("Return the plan as YAML"),
		),
		s.handleShow,
	)

	return nil
}
