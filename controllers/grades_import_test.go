package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"unifiedweb_go/gradesheet"
	"unifiedweb_go/middleware"
	"unifiedweb_go/models"
	"unifiedweb_go/services/grades"
	"unifiedweb_go/utils"

	"github.com/gofiber/fiber/v2"
)

// fakeGradeStore lets handler tests script store outcomes and observe
// which calls the handlers make.
type fakeGradeStore struct {
	rc            *grades.RosterContext
	roster        utils.RosterDTO
	applyResults  []grades.SubmissionResult
	applyErr      error
	submitApplied bool
	submitErr     error

	fetchCalls  int
	submitCalls int
	applyCalls  int
}

func (f *fakeGradeStore) LoadContext(groupID, disciplineID uint, templates []string) (*grades.RosterContext, error) {
	return f.rc, nil
}

func (f *fakeGradeStore) FetchRoster(rc *grades.RosterContext) (utils.RosterDTO, error) {
	f.fetchCalls++
	return f.roster, nil
}

func (f *fakeGradeStore) SubmitCell(rc *grades.RosterContext, sub gradesheet.Submission, actorID uint) (bool, error) {
	f.submitCalls++
	return f.submitApplied, f.submitErr
}

func (f *fakeGradeStore) ApplyImport(rc *grades.RosterContext, subs []gradesheet.Submission, actorID uint) ([]grades.SubmissionResult, error) {
	f.applyCalls++
	return f.applyResults, f.applyErr
}

func newFakeGradeStore() *fakeGradeStore {
	sheet := gradesheet.Context{
		Templates:   []string{gradesheet.TemplateAdmin, gradesheet.TemplateTeacher},
		GroupCode:   "KN-21-1",
		Discipline:  "Mathematics",
		GradeSystem: gradesheet.GradeSystem12,
		Roster:      map[uint]struct{}{1001: {}},
	}
	return &fakeGradeStore{
		rc: &grades.RosterContext{
			Group:      models.Group{Code: "KN-21-1"},
			Discipline: models.Discipline{Name: "Mathematics"},
			Sheet:      sheet,
		},
		roster: utils.RosterDTO{GroupCode: "KN-21-1", Discipline: "Mathematics"},
	}
}

func newGradesTestApp(store *fakeGradeStore) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("claims", &middleware.Claims{UserID: 1, Username: "admin", Role: models.RoleAdmin})
		return c.Next()
	})
	gc := NewGradesController(store, nil)
	app.Post("/api/grades/cell", gc.SubmitCell)
	app.Post("/api/grades/import", gc.Import)
	return app
}

const importSheetCSV = `Template,UnifiedWeb Admin Grades
Group,KN-21-1
Discipline,Mathematics
Grade System,12-point
EDBO ID,Student,01-09-2024
1001,Shevchenko Taras,9
`

// A store failure partway through the apply loop must not skip the
// roster refetch: the client re-renders from the store either way.
func TestImportAbortStillRefetchesRoster(t *testing.T) {
	store := newFakeGradeStore()
	store.applyErr = fiber.NewError(fiber.StatusInternalServerError, "store unavailable")
	store.applyResults = []grades.SubmissionResult{
		{Row: 6, EDBOID: 1001, Date: "01-09-2024", Grade: 9, Error: "store unavailable"},
	}
	app := newGradesTestApp(store)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", "grades.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(importSheetCSV)); err != nil {
		t.Fatal(err)
	}
	_ = w.WriteField("group_id", "1")
	_ = w.WriteField("discipline_id", "2")
	_ = w.Close()

	req := httptest.NewRequest("POST", "/api/grades/import", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadGateway {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadGateway)
	}
	if store.applyCalls != 1 {
		t.Errorf("ApplyImport called %d times, want 1", store.applyCalls)
	}
	if store.fetchCalls != 1 {
		t.Errorf("FetchRoster called %d times after aborted apply, want 1", store.fetchCalls)
	}

	var got struct {
		Success bool                      `json:"success"`
		Applied int                       `json:"applied"`
		Results []grades.SubmissionResult `json:"results"`
		Roster  utils.RosterDTO           `json:"roster"`
		Error   string                    `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Success {
		t.Error("aborted import reported success")
	}
	if got.Error == "" {
		t.Error("aborted import response carries no error")
	}
	if len(got.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(got.Results))
	}
	if got.Roster.GroupCode != "KN-21-1" {
		t.Errorf("response roster = %+v, want the refetched roster", got.Roster)
	}
}

// Committing the grade a cell already holds reports applied=false and
// still returns a roster read back from the store.
func TestSubmitCellNoOpResponse(t *testing.T) {
	store := newFakeGradeStore()
	store.submitApplied = false
	app := newGradesTestApp(store)

	req := httptest.NewRequest("POST", "/api/grades/cell",
		strings.NewReader(`{"group_id":1,"discipline_id":2,"edbo_id":1001,"date":"01-09-2024","grade":9}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if store.submitCalls != 1 {
		t.Errorf("SubmitCell called %d times, want 1", store.submitCalls)
	}
	if store.fetchCalls != 1 {
		t.Errorf("FetchRoster called %d times, want 1", store.fetchCalls)
	}

	var got struct {
		Applied bool            `json:"applied"`
		Roster  utils.RosterDTO `json:"roster"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Applied {
		t.Error("no-op commit reported applied=true")
	}
	if got.Roster.GroupCode != "KN-21-1" {
		t.Errorf("response roster = %+v, want the refetched roster", got.Roster)
	}
}
