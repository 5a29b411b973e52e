package controllers

import (
	"reflect"
	"testing"

	"unifiedweb_go/gradesheet"
	"unifiedweb_go/models"
)

func TestTemplatesForRole(t *testing.T) {
	cases := []struct {
		role models.Role
		want []string
	}{
		{models.RoleTeacher, []string{gradesheet.TemplateTeacher}},
		{models.RoleAdmin, []string{gradesheet.TemplateAdmin, gradesheet.TemplateTeacher}},
		{models.RoleOwner, []string{gradesheet.TemplateAdmin, gradesheet.TemplateTeacher}},
		{models.RoleStudent, nil},
	}

	for _, tc := range cases {
		got := templatesForRole(tc.role)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("templatesForRole(%s) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

// The first template in the slice is the one stamped onto exports, so
// each role's own template literal must come first.
func TestTemplatesForRoleExportStamp(t *testing.T) {
	if got := templatesForRole(models.RoleTeacher)[0]; got != gradesheet.TemplateTeacher {
		t.Errorf("teacher export stamp = %q", got)
	}
	if got := templatesForRole(models.RoleAdmin)[0]; got != gradesheet.TemplateAdmin {
		t.Errorf("admin export stamp = %q", got)
	}
}

func TestExportRoleName(t *testing.T) {
	if got := exportRoleName(models.RoleTeacher); got != "Teacher" {
		t.Errorf("exportRoleName(teacher) = %q", got)
	}
	for _, r := range []models.Role{models.RoleAdmin, models.RoleOwner} {
		if got := exportRoleName(r); got != "Admin" {
			t.Errorf("exportRoleName(%s) = %q", r, got)
		}
	}
}

func TestSanitizeUploadName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"grades.xlsx", "grades.xlsx"},
		{"../../etc/passwd", "____etc_passwd"},
		{"dir\\file.csv", "dir_file.csv"},
	}
	for _, tc := range cases {
		if got := sanitizeUploadName(tc.in); got != tc.want {
			t.Errorf("sanitizeUploadName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
