package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"leadflow/internal/config"
	"leadflow/internal/database"
	"leadflow/internal/domain"
	"leadflow/internal/repository"
)

var (
	companies = []string{
		"TechCorp", "InnovateLabs", "DataSystems", "CloudWorks", "DigitalSolutions",
		"SmartTech", "FutureSoft", "NextGen", "ProTech", "WebMasters",
	}
	cities = []string{
		"New York", "Los Angeles", "Chicago", "Houston", "Phoenix",
		"Philadelphia", "San Antonio", "San Diego", "Dallas", "San Jose",
	}
	states = []string{"NY", "CA", "IL", "TX", "AZ", "PA", "TX", "CA", "TX", "CA"}

	firstNames = []string{
		"John", "Jane", "Michael", "Sarah", "David", "Emily", "Robert", "Jessica",
		"William", "Ashley", "James", "Amanda", "Christopher", "Stephanie", "Daniel",
		"Melissa", "Matthew", "Nicole", "Anthony", "Elizabeth", "Mark", "Helen",
		"Steven", "Kathleen", "Paul", "Amy", "Andrew", "Angela", "Joshua", "Emma",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
		"Davis", "Rodriguez", "Martinez", "Wilson", "Anderson", "Thomas", "Taylor",
		"Moore", "Jackson", "Martin", "Lee", "Thompson", "White", "Harris", "Clark",
		"Lewis", "Robinson", "Walker", "Young", "Allen", "King", "Wright", "Scott",
	}
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL, nil)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM leads")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	leads := repository.NewLeadRepository(db)

	log.Println("Creating test user...")
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	owner := domain.User{
		Email:        "test@example.com",
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     "User",
	}
	if err := users.Create(ctx, &owner); err != nil {
		log.Fatal("create user failed:", err)
	}

	log.Println("Creating sample leads...")
	now := time.Now()
	for i := 0; i < 150; i++ {
		firstName := firstNames[rand.Intn(len(firstNames))]
		lastName := lastNames[rand.Intn(len(lastNames))]
		cityIdx := rand.Intn(len(cities))

		l := domain.Lead{
			OwnerID:     owner.ID,
			FirstName:   firstName,
			LastName:    lastName,
			Email:       fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(firstName), strings.ToLower(lastName), i),
			Phone:       fmt.Sprintf("+1%d", rand.Intn(9000000000)+1000000000),
			Company:     companies[rand.Intn(len(companies))],
			City:        cities[cityIdx],
			State:       states[cityIdx],
			Source:      domain.AllSources[rand.Intn(len(domain.AllSources))],
			Status:      domain.AllStatuses[rand.Intn(len(domain.AllStatuses))],
			Score:       rand.Intn(101),
			LeadValue:   float64(rand.Intn(50000) + 1000),
			IsQualified: rand.Float64() > 0.7,
			CreatedAt:   now.Add(-time.Duration(rand.Intn(90*24)) * time.Hour),
		}
		if rand.Float64() > 0.3 {
			at := now.Add(-time.Duration(rand.Intn(30*24)) * time.Hour)
			l.LastActivityAt = &at
		}
		if err := leads.Create(ctx, &l); err != nil {
			log.Fatal("create lead failed:", err)
		}
	}

	log.Println("Created 150 sample leads")
	log.Println("Test user credentials: test@example.com / password123")
}
