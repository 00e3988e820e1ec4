package main

import (
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"association-portal-api/config"
	"association-portal-api/models"
)

// Creates or promotes an admin account. Intended for bootstrapping a fresh
// deployment: every signup through the API starts as a student.
func main() {
	name := flag.String("name", "", "admin display name")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("usage: create-admin -name NAME -email EMAIL -password PASSWORD")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	now := time.Now()

	var existing models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", *email).First(&existing).Error; err == nil {
		existing.RoleID = models.RoleAdmin
		existing.UpdateAt = &now
		if err := config.DB.Save(&existing).Error; err != nil {
			log.Fatal("Failed to promote user:", err)
		}
		log.Printf("Promoted %s to admin", *email)
		return
	}

	user := models.User{
		Name:     *name,
		Email:    *email,
		Password: string(hash),
		RoleID:   models.RoleAdmin,
		CreateAt: &now,
		UpdateAt: &now,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}
	log.Printf("Created admin %s (user_id=%d)", *email, user.UserID)
}
