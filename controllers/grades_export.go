package controllers

import (
	"fmt"

	"unifiedweb_go/config"
	"unifiedweb_go/gradesheet"
	"unifiedweb_go/middleware"
	"unifiedweb_go/storage"
	"unifiedweb_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export downloads the current grade grid as an .xlsx workbook. The
// sheet carries the caller's template literal, so a teacher export
// round-trips through teacher import and an admin export through
// either.
// GET /api/grades/export?group_id=&discipline_id=
func (gc *GradesController) Export(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	rc := gc.loadRosterContext(c)
	if rc == nil {
		return nil
	}

	roster, err := gc.service.FetchRoster(rc)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch roster"})
	}

	grid := gradesheet.BuildGrid(rc.Sheet, utils.GradeSheetStudents(roster), roster.Dates)

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range grid {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build workbook"})
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build workbook"})
	}

	fileName := gradesheet.ExportFileName(exportRoleName(claims.Role), rc.Group.Code, rc.Discipline.Name)

	if config.AppConfig.ArchiveExports {
		// Best effort: a stash failure must not block the download
		if svc, serr := storage.NewStorageService(); serr == nil {
			if url, uerr := svc.StashExport(fileName, buf.Bytes(), claims.UserID); uerr != nil {
				logrus.WithError(uerr).Warn("Failed to archive exported grade sheet")
			} else {
				c.Set("X-Archive-URL", url)
			}
		} else {
			logrus.WithError(serr).Warn("Failed to init storage for export archive")
		}
	}

	middleware.LogActivity(c, "EXPORT", "assessments", rc.Discipline.ID, fiber.Map{
		"group":      rc.Group.Code,
		"discipline": rc.Discipline.Name,
		"file_name":  fileName,
	})

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
	return c.Send(buf.Bytes())
}
