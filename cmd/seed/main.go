package main

import (
	"log"
	"os"

	"ai-playground-be/internal/entity"
	"ai-playground-be/internal/model"
	"ai-playground-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "demo-password"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	user := seedDemoUser(db)
	seedDemoSession(db, user)

	color.Green("✅ Seed completed")
	color.Cyan("   login: %s / %s", demoEmail, demoPassword)
}

func seedDemoUser(db *gorm.DB) *model.User {
	var existing model.User
	if err := db.Where("email = ?", demoEmail).First(&existing).Error; err == nil {
		color.Yellow("Demo user already exists, skipping")
		return &existing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Error: Failed to hash demo password:", err)
	}
	hashStr := string(hash)

	user := model.User{
		Email:        demoEmail,
		PasswordHash: &hashStr,
		Provider:     entity.ProviderLocal,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatal("Error: Failed to create demo user:", err)
	}
	color.Green("Created demo user %s", user.Id)
	return &user
}

func seedDemoSession(db *gorm.DB, user *model.User) {
	var count int64
	db.Model(&model.Session{}).Where("user_id = ?", user.Id).Count(&count)
	if count > 0 {
		color.Yellow("Demo user already has sessions, skipping")
		return
	}

	session := model.Session{
		UserId: user.Id,
		Name:   "Welcome",
		Chat: datatypes.JSON([]byte(`[
			{"role": "user", "content": "Build me a counter"},
			{"role": "assistant", "content": "Here is a simple counter component."}
		]`)),
		Jsx: "function App() {\n  const [count, setCount] = React.useState(0);\n  return <button onClick={() => setCount(count + 1)}>Count: {count}</button>;\n}",
		Css: "button { padding: 8px 16px; }",
	}
	if err := db.Create(&session).Error; err != nil {
		log.Fatal("Error: Failed to create demo session:", err)
	}
	color.Green("Created demo session %s", session.Id)
}
