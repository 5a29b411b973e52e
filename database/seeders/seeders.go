package seeders

import (
	"log"

	"unifiedweb_go/database"
	"unifiedweb_go/models"
	"unifiedweb_go/utils"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedUsers()
	SeedGroups()
	SeedDisciplines()
	SeedStudents()

	log.Println("Database seeding completed successfully!")
}

// SeedUsers seeds the users table with the bootstrap accounts
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	hashedPassword, _ := utils.HashPassword("password123")

	users := []models.User{
		{Username: "admin", Password: hashedPassword, Email: "admin@unifiedweb.local", Role: models.RoleAdmin, Status: "active"},
		{Username: "teacher", Password: hashedPassword, Email: "teacher@unifiedweb.local", Role: models.RoleTeacher, Status: "active"},
	}

	for _, user := range users {
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("Error seeding user %s: %v", user.Username, err)
		}
	}

	// Teacher profile for the seeded teacher account
	var teacherUser models.User
	if err := database.DB.Where("username = ?", "teacher").First(&teacherUser).Error; err == nil {
		t := models.Teacher{UserID: teacherUser.ID, FirstName: "Olena", LastName: "Kovalenko", Department: "Computer Science", Active: true}
		if err := database.DB.Create(&t).Error; err != nil {
			log.Printf("Error seeding teacher profile: %v", err)
		}
	}

	log.Println("Users seeded successfully")
}

// SeedGroups seeds a demo study group
func SeedGroups() {
	var count int64
	database.DB.Model(&models.Group{}).Count(&count)
	if count > 0 {
		log.Println("Groups already seeded, skipping...")
		return
	}

	group := models.Group{Code: "KN-21-1", Name: "Computer Science, 2021 intake", Year: 2021, Status: "active"}
	if err := database.DB.Create(&group).Error; err != nil {
		log.Printf("Error seeding group %s: %v", group.Code, err)
	}

	log.Println("Groups seeded successfully")
}

// SeedDisciplines seeds demo disciplines and assigns them to the group
func SeedDisciplines() {
	var count int64
	database.DB.Model(&models.Discipline{}).Count(&count)
	if count > 0 {
		log.Println("Disciplines already seeded, skipping...")
		return
	}

	disciplines := []models.Discipline{
		{Name: "Mathematics", Active: true},
		{Name: "Physics", Active: true},
		{Name: "Programming", Active: true},
	}
	for i := range disciplines {
		if err := database.DB.Create(&disciplines[i]).Error; err != nil {
			log.Printf("Error seeding discipline %s: %v", disciplines[i].Name, err)
		}
	}

	var group models.Group
	if err := database.DB.Where("code = ?", "KN-21-1").First(&group).Error; err != nil {
		return
	}
	var teacher models.Teacher
	var teacherID *uint
	if err := database.DB.First(&teacher).Error; err == nil {
		teacherID = &teacher.ID
	}
	for _, d := range disciplines {
		gd := models.GroupDiscipline{GroupID: group.ID, DisciplineID: d.ID, TeacherID: teacherID}
		if err := database.DB.Create(&gd).Error; err != nil {
			log.Printf("Error assigning discipline %s: %v", d.Name, err)
		}
	}

	log.Println("Disciplines seeded successfully")
}

// SeedStudents seeds a demo roster for the demo group
func SeedStudents() {
	var count int64
	database.DB.Model(&models.Student{}).Count(&count)
	if count > 0 {
		log.Println("Students already seeded, skipping...")
		return
	}

	var group models.Group
	if err := database.DB.Where("code = ?", "KN-21-1").First(&group).Error; err != nil {
		log.Printf("Error loading demo group: %v", err)
		return
	}

	students := []models.Student{
		{EDBOID: 1001, LastName: "Shevchenko", FirstName: "Taras", MiddleName: "Hryhorovych", GroupID: &group.ID},
		{EDBOID: 1002, LastName: "Franko", FirstName: "Ivan", MiddleName: "Yakovych", GroupID: &group.ID},
		{EDBOID: 1003, LastName: "Ukrainka", FirstName: "Lesia", GroupID: &group.ID},
	}

	for _, student := range students {
		if err := database.DB.Create(&student).Error; err != nil {
			log.Printf("Error seeding student %d: %v", student.EDBOID, err)
		}
	}

	log.Println("Students seeded successfully")
}
