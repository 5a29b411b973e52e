package models

import (
	"database/sql/driver"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Role is the closed set of account roles. Values arriving from
// outside (login payloads, legacy clients sending plural forms) pass
// through NormalizeRole exactly once at the boundary; everything past
// the boundary compares Role constants only.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// NormalizeRole folds legacy aliases ("admins", "students", ...) into
// a canonical Role. Unknown input returns ok=false.
func NormalizeRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "owner", "owners":
		return RoleOwner, true
	case "admin", "admins":
		return RoleAdmin, true
	case "teacher", "teachers":
		return RoleTeacher, true
	case "student", "students":
		return RoleStudent, true
	}
	return "", false
}

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// IsStaff reports whether the role may touch grade data.
func (r Role) IsStaff() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleTeacher
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// User model
type User struct {
	BaseModel
	Username string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password string `json:"-" gorm:"size:255;not null"`
	Email    string `json:"email" gorm:"size:255"`
	Phone    string `json:"phone" gorm:"size:20"`
	Role     Role   `json:"role" gorm:"size:50;not null;default:'student';type:enum('owner','admin','teacher','student')"`
	Status   string `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','suspended')"` // active, inactive, suspended
	Avatar   string `json:"avatar" gorm:"size:500"`

	// Relationships
	Student *Student `json:"student,omitempty" gorm:"foreignKey:UserID"`
	Teacher *Teacher `json:"teacher,omitempty" gorm:"foreignKey:UserID"`
}

// Student model. EDBOID is the national roster identifier grade
// sheets are keyed by; it never changes once assigned.
type Student struct {
	BaseModel
	UserID      *uint      `json:"user_id" gorm:"uniqueIndex"`
	EDBOID      uint       `json:"edbo_id" gorm:"column:edbo_id;not null;uniqueIndex"`
	FirstName   string     `json:"first_name" gorm:"size:100;not null"`
	MiddleName  string     `json:"middle_name" gorm:"size:100"`
	LastName    string     `json:"last_name" gorm:"size:100;not null"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	GroupID     *uint      `json:"group_id" gorm:"index"`
	Status      string     `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','academic_leave','expelled','graduated')"`

	// Relationships
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Group *Group `json:"group,omitempty" gorm:"foreignKey:GroupID"`
}

// DisplayName renders "Last First Middle" the way grade sheets and
// roster screens show students.
func (s Student) DisplayName() string {
	parts := []string{s.LastName, s.FirstName, s.MiddleName}
	out := make([]string, 0, 3)
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, strings.TrimSpace(p))
		}
	}
	return strings.Join(out, " ")
}

// Teacher model
type Teacher struct {
	BaseModel
	UserID     uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	FirstName  string `json:"first_name" gorm:"size:100;not null"`
	MiddleName string `json:"middle_name" gorm:"size:100"`
	LastName   string `json:"last_name" gorm:"size:100;not null"`
	Department string `json:"department" gorm:"size:255"`
	Active     bool   `json:"active" gorm:"default:true"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Group model (study group, e.g. "KN-21-1")
type Group struct {
	BaseModel
	Code      string `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Name      string `json:"name" gorm:"size:255"`
	Year      int    `json:"year"`
	CuratorID *uint  `json:"curator_id"`
	Status    string `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','archived')"`

	// Relationships
	Students    []Student         `json:"students,omitempty" gorm:"foreignKey:GroupID"`
	Disciplines []GroupDiscipline `json:"disciplines,omitempty" gorm:"foreignKey:GroupID"`
}

// Discipline model
type Discipline struct {
	BaseModel
	Name        string `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Description string `json:"description" gorm:"type:text"`
	Active      bool   `json:"active" gorm:"default:true"`
}

// GroupDiscipline assigns a discipline (and optionally the teacher
// reading it) to a group; rosters and grade sheets are scoped to one
// of these pairs.
type GroupDiscipline struct {
	BaseModel
	GroupID      uint  `json:"group_id" gorm:"not null;uniqueIndex:idx_group_discipline"`
	DisciplineID uint  `json:"discipline_id" gorm:"not null;uniqueIndex:idx_group_discipline"`
	TeacherID    *uint `json:"teacher_id"`

	// Relationships
	Group      Group      `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	Discipline Discipline `json:"discipline,omitempty" gorm:"foreignKey:DisciplineID"`
	Teacher    *Teacher   `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
}

// Assessment is one grade cell: a student's grade in a discipline on a
// calendar day. Date is stored as the canonical DD-MM-YYYY key. The
// unique index makes grade submission idempotent: resubmitting the
// same (student, discipline, date) overwrites.
type Assessment struct {
	BaseModel
	StudentID    uint   `json:"student_id" gorm:"not null;uniqueIndex:idx_student_discipline_date"`
	DisciplineID uint   `json:"discipline_id" gorm:"not null;uniqueIndex:idx_student_discipline_date"`
	Date         string `json:"date" gorm:"size:10;not null;uniqueIndex:idx_student_discipline_date"`
	GradeSystem  string `json:"grade_system" gorm:"size:50;not null;default:'12-point'"`
	Grade        int    `json:"grade" gorm:"not null"`
	CreatedBy    uint   `json:"created_by"`

	// Relationships
	Student    Student    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Discipline Discipline `json:"discipline,omitempty" gorm:"foreignKey:DisciplineID"`
}

// Lesson is one calendar entry on the schedule editor.
type Lesson struct {
	BaseModel
	GroupID      uint      `json:"group_id" gorm:"not null;index"`
	DisciplineID uint      `json:"discipline_id" gorm:"not null"`
	TeacherID    *uint     `json:"teacher_id"`
	Date         time.Time `json:"date" gorm:"not null;index"`
	StartTime    string    `json:"start_time" gorm:"size:5;not null"` // HH:MM
	EndTime      string    `json:"end_time" gorm:"size:5;not null"`
	Room         string    `json:"room" gorm:"size:100"`
	LessonType   string    `json:"lesson_type" gorm:"size:50;default:'lecture';type:enum('lecture','practice','lab','exam','consultation')"`
	Notes        string    `json:"notes" gorm:"type:text"`

	// Relationships
	Group      Group      `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	Discipline Discipline `json:"discipline,omitempty" gorm:"foreignKey:DisciplineID"`
	Teacher    *Teacher   `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null;type:enum('info','warning','error','success')"` // info, warning, error, success
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"` // pending, completed, failed
	Error       string    `json:"error" gorm:"type:text"`
}
