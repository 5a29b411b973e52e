package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"unifiedweb_go/config"
	"unifiedweb_go/gradesheet"
	"unifiedweb_go/middleware"
	"unifiedweb_go/services/grades"
	"unifiedweb_go/storage"
	"unifiedweb_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Import ingests a grade sheet (xlsx, xls or csv) for one
// (group, discipline) pair. The whole sheet is validated before a
// single write happens; once validation passes, cells are applied one
// at a time in sheet order. The store has no multi-cell transaction,
// so a mid-apply failure leaves earlier cells committed and the
// response accounts for every attempted cell. The roster in the
// response is refetched from the store either way.
// POST /api/grades/import  (multipart: file, group_id, discipline_id)
func (gc *GradesController) Import(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	if fileHeader.Size > config.AppConfig.MaxFileSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "file is too large"})
	}

	allowed := strings.Split(config.AppConfig.AllowedExtensions, ",")
	if !utils.IsValidFileExtension(fileHeader.Filename, allowed) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported file type (xlsx, xls, csv)"})
	}

	gID := formUint(c, "group_id")
	dID := formUint(c, "discipline_id")
	if gID == 0 || dID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "group_id and discipline_id are required"})
	}

	rc, err := gc.service.LoadContext(gID, dID, templatesForRole(claims.Role))
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, grades.ErrGroupNotFound) || errors.Is(err, grades.ErrDisciplineNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	rows, err := readUploadedSheet(c, fileHeader)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	subs, err := gradesheet.ParseSheet(rows, rc.Sheet)
	if err != nil {
		var verr *gradesheet.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": verr.Message,
				"check": verr.Check,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if config.AppConfig.ArchiveExports {
		if svc, serr := storage.NewStorageService(); serr == nil {
			if _, uerr := svc.StashImport(fileHeader, claims.UserID); uerr != nil {
				logrus.WithError(uerr).Warn("Failed to archive imported grade sheet")
			}
		}
	}

	results, applyErr := gc.service.ApplyImport(rc, subs, claims.UserID)
	applied := 0
	for _, r := range results {
		if r.OK {
			applied++
		}
	}

	middleware.LogActivity(c, "IMPORT", "assessments", rc.Discipline.ID, fiber.Map{
		"group":      rc.Group.Code,
		"discipline": rc.Discipline.Name,
		"file_name":  fileHeader.Filename,
		"applied":    applied,
	})

	gc.notifyImport(rc, claims.UserID, fileHeader.Filename, applied, applyErr)

	roster, rerr := gc.service.FetchRoster(rc)
	if rerr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch roster"})
	}

	resp := fiber.Map{
		"success":     applyErr == nil,
		"file_name":   fileHeader.Filename,
		"total_cells": len(subs),
		"applied":     applied,
		"results":     results,
		"roster":      roster,
	}
	if applyErr != nil {
		resp["error"] = applyErr.Error()
		// Earlier cells stay committed; the caller sees exactly which
		return c.Status(fiber.StatusBadGateway).JSON(resp)
	}
	return c.JSON(resp)
}

func (gc *GradesController) notifyImport(rc *grades.RosterContext, actorID uint, fileName string, applied int, applyErr error) {
	if gc.notifier == nil {
		return
	}
	title := "Grade import finished"
	msg := fmt.Sprintf("%s / %s: %d grades imported from %s", rc.Group.Code, rc.Discipline.Name, applied, fileName)
	typ := "success"
	if applyErr != nil {
		title = "Grade import failed partway"
		msg = fmt.Sprintf("%s / %s: %d grades applied from %s before a storage error", rc.Group.Code, rc.Discipline.Name, applied, fileName)
		typ = "error"
	}
	if err := gc.notifier.Notify([]uint{actorID}, title, msg, typ); err != nil {
		logrus.WithError(err).Warn("Failed to send import notification")
	}
}

func formUint(c *fiber.Ctx, key string) uint {
	v := strings.TrimSpace(c.FormValue(key))
	if v == "" {
		return 0
	}
	var n uint
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return 0
	}
	return n
}

// readUploadedSheet buffers the upload and returns its rows. Excel
// files go through a temp file because excelize opens by path.
func readUploadedSheet(c *fiber.Ctx, fileHeader *multipart.FileHeader) ([][]string, error) {
	filename := strings.ToLower(fileHeader.Filename)

	if strings.HasSuffix(filename, ".csv") {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, errors.New("cannot open file")
		}
		defer file.Close()
		return readSheetCSV(file)
	}

	tmpDir, err := os.MkdirTemp("", "uwxls-")
	if err != nil {
		return nil, errors.New("failed to buffer upload")
	}
	defer os.RemoveAll(tmpDir)
	tmp := filepath.Join(tmpDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeUploadName(fileHeader.Filename)))
	if err := c.SaveFile(fileHeader, tmp); err != nil {
		return nil, errors.New("failed to buffer upload")
	}
	return readSheetXLSX(tmp)
}

func readSheetCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readSheetXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sht := f.GetSheetName(0)
	if sht == "" {
		sht = "Sheet1"
	}
	return f.GetRows(sht)
}

func sanitizeUploadName(name string) string {
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "..", "_")
	return name
}
