package api

import (
	"bytes"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kilianp07/planner/core/planner"
	"github.com/kilianp07/planner/pkg/export"
)

type handler struct {
	svc *planner.Service
}

func (h *handler) register(app *fiber.App) {
	app.Post("/period", h.createPeriod)
	app.Get("/periods", h.listPeriods)
	app.Get("/period/:id", h.getPeriod)
	app.Delete("/period/:id", h.deletePeriod)
	app.Get("/period/:id/projects", h.listProjects)
	app.Get("/period/:id/contributor_chart", h.contributorChart)
	app.Get("/period/:id/utilization", h.utilization)

	app.Post("/project", h.createProject)
	app.Delete("/project/:id", h.deleteProject)

	app.Post("/skill", h.createSkill)
	app.Get("/skills", h.listSkills)
	app.Delete("/skill/:id", h.deleteSkill)

	app.Post("/component", h.createComponent)
	app.Get("/component/:id", h.getComponent)
	app.Put("/component/:id/estimated_weeks", h.updateEstimatedWeeks)
	app.Post("/component/:id/assign_contributor", h.assignContributor)
	app.Delete("/component/:id/assignments", h.clearAssignments)
	app.Delete("/component/:id", h.deleteComponent)

	app.Post("/contributor", h.createContributor)
	app.Get("/contributors", h.listContributors)
	app.Get("/contributors/get_contributors_by_skill/:id", h.contributorsBySkill)
	app.Delete("/contributor/:id", h.deleteContributor)

	app.Post("/assignment", h.updateAssignments)
	app.Get("/assignments/contributor/:id", h.assignmentsByContributor)
}

func (h *handler) createPeriod(c *fiber.Ctx) error {
	var in planner.PeriodInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(err)
	}
	p, err := h.svc.CreatePeriod(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *handler) listPeriods(c *fiber.Ctx) error {
	periods, err := h.svc.ListPeriods(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(periods)
}

func (h *handler) getPeriod(c *fiber.Ctx) error {
	p, err := h.svc.GetPeriod(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *handler) deletePeriod(c *fiber.Ctx) error {
	if err := h.svc.DeletePeriod(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Period deleted"})
}

func (h *handler) listProjects(c *fiber.Ctx) error {
	projects, err := h.svc.ListProjectsWithComponents(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"projects": projects})
}

// contributorChart answers with CSV when ?format=csv is given.
func (h *handler) contributorChart(c *fiber.Ctx) error {
	period, chart, err := h.svc.GetPeriodChart(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if c.Query("format") != "csv" {
		if err := export.WriteJSON(&buf, chart); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(buf.Bytes())
	}
	if err := export.WriteChartCSV(&buf, period, chart); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="contributor_chart.csv"`)
	return c.Send(buf.Bytes())
}

func (h *handler) utilization(c *fiber.Ctx) error {
	u, err := h.svc.PeriodUtilization(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (h *handler) createProject(c *fiber.Ctx) error {
	var in planner.ProjectInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(err)
	}
	p, err := h.svc.CreateProject(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *handler) deleteProject(c *fiber.Ctx) error {
	if err := h.svc.DeleteProject(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Project deleted"})
}

func (h *handler) createSkill(c *fiber.Ctx) error {
	var in struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(err)
	}
	s, err := h.svc.CreateSkill(c.UserContext(), in.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

func (h *handler) listSkills(c *fiber.Ctx) error {
	skills, err := h.svc.ListSkills(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(skills)
}

func (h *handler) deleteSkill(c *fiber.Ctx) error {
	if err := h.svc.DeleteSkill(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Skill deleted"})
}

func (h *handler) createComponent(c *fiber.Ctx) error {
	var in planner.ComponentInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(err)
	}
	comp, err := h.svc.CreateComponent(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(comp)
}

func (h *handler) getComponent(c *fiber.Ctx) error {
	r, err := h.svc.GetComponentReport(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(r)
}

func (h *handler) updateEstimatedWeeks(c *fiber.Ctx) error {
	var in struct {
		EstimatedWeeks *int `json:"estimated_weeks"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(err)
	}
	if in.EstimatedWeeks == nil {
		return fiber.NewError(fiber.StatusBadRequest, "estimated_weeks is required")
	}
	comp, err := h.svc.UpdateComponentEstimatedWeeks(c.UserContext(), c.Params("id"), *in.EstimatedWeeks)
	if err != nil {
		return err
	}
	return c.JSON(comp)
}

// assignContributor accepts {"contributor_id": null} to unassign.
func (h *handler) assignContributor(c *fiber.Ctx) error {
	var in struct {
		ContributorID *string `json:"contributor_id"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badRequest(err)
		}
	}
	comp, err := h.svc.AssignContributor(c.UserContext(), c.Params("id"), in.ContributorID)
	if err != nil {
		return err
	}
	return c.JSON(comp)
}

func (h *handler) clearAssignments(c *fiber.Ctx) error {
	n, err := h.svc.ClearAssignments(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Assignments deleted", "deleted": n})
}

func (h *handler) deleteComponent(c *fiber.Ctx) error {
	if err := h.svc.DeleteComponent(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Component deleted"})
}

func (h *handler) createContributor(c *fiber.Ctx) error {
	var in planner.ContributorInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(err)
	}
	ctb, err := h.svc.CreateContributor(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ctb)
}

func (h *handler) listContributors(c *fiber.Ctx) error {
	list, err := h.svc.ListContributors(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *handler) contributorsBySkill(c *fiber.Ctx) error {
	list, err := h.svc.ListContributorsBySkill(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"contributors": list})
}

func (h *handler) deleteContributor(c *fiber.Ctx) error {
	if err := h.svc.DeleteContributor(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Contributor deleted"})
}

func (h *handler) updateAssignments(c *fiber.Ctx) error {
	var in planner.AssignmentUpdate
	if err := c.BodyParser(&in); err != nil {
		return badRequest(err)
	}
	changes, err := h.svc.UpdateAssignments(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(changes)
}

func (h *handler) assignmentsByContributor(c *fiber.Ctx) error {
	list, err := h.svc.ListAssignmentsByContributor(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set("X-Total-Count", strconv.Itoa(len(list)))
	return c.JSON(list)
}
