package models

import "testing"

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"admin", RoleAdmin, true},
		{"admins", RoleAdmin, true},
		{"ADMIN", RoleAdmin, true},
		{" teacher ", RoleTeacher, true},
		{"Teachers", RoleTeacher, true},
		{"owner", RoleOwner, true},
		{"owners", RoleOwner, true},
		{"students", RoleStudent, true},
		{"", "", false},
		{"superuser", "", false},
		{"teach", "", false},
	}

	for _, tc := range cases {
		got, ok := NormalizeRole(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("NormalizeRole(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRoleIsStaff(t *testing.T) {
	staff := []Role{RoleOwner, RoleAdmin, RoleTeacher}
	for _, r := range staff {
		if !r.IsStaff() {
			t.Errorf("%s should be staff", r)
		}
	}
	if RoleStudent.IsStaff() {
		t.Error("student should not be staff")
	}
	if Role("ghost").IsStaff() {
		t.Error("unknown role should not be staff")
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleOwner, RoleAdmin, RoleTeacher, RoleStudent} {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if Role("admins").Valid() {
		t.Error("alias forms are not valid roles; they must pass through NormalizeRole")
	}
}

func TestStudentDisplayName(t *testing.T) {
	cases := []struct {
		name    string
		student Student
		want    string
	}{
		{
			name:    "full name",
			student: Student{FirstName: "Taras", MiddleName: "Hryhorovych", LastName: "Shevchenko"},
			want:    "Shevchenko Taras Hryhorovych",
		},
		{
			name:    "no middle name",
			student: Student{FirstName: "Ivan", LastName: "Franko"},
			want:    "Franko Ivan",
		},
		{
			name:    "padded parts are trimmed",
			student: Student{FirstName: " Lesia ", MiddleName: "  ", LastName: "Ukrainka"},
			want:    "Ukrainka Lesia",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.student.DisplayName(); got != tc.want {
				t.Errorf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestJSONNullHandling(t *testing.T) {
	var j JSON
	if !j.IsNull() {
		t.Error("nil JSON should be null")
	}
	if v, err := j.Value(); err != nil || v != nil {
		t.Errorf("nil JSON Value() = (%v, %v), want (nil, nil)", v, err)
	}

	j = JSON(`{"grade":9}`)
	if j.IsNull() {
		t.Error("populated JSON should not be null")
	}
	v, err := j.Value()
	if err != nil || v != `{"grade":9}` {
		t.Errorf("Value() = (%v, %v)", v, err)
	}

	var scanned JSON
	if err := scanned.Scan([]byte(`{"a":1}`)); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if string(scanned) != `{"a":1}` {
		t.Errorf("Scan result = %q", scanned)
	}
}
