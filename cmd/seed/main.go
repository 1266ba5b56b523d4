package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"skybook/internal/flights"
	"skybook/internal/shared/config"
	"skybook/internal/shared/database"
	"skybook/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting SkyBook Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Order matters due to foreign key constraints
	// Delete in reverse dependency order
	tables := []string{
		"passengers",
		"booking_seats",
		"bookings",
		"flights",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Disable foreign key constraints temporarily
	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	// Re-enable foreign key constraints
	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	// Seed users first (no dependencies)
	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	// Seed flights
	if _, err := s.SeedFlights(userIDs["admin"]); err != nil {
		return fmt.Errorf("failed to seed flights: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates 3 users: 1 admin and 2 regular users
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	// Hash password for all users (using "qwerty")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		phone     string
		passport  string
		role      users.Role
	}{
		{"admin", "Admin", "User", "admin@skybook.io", "", "", users.RoleAdmin},
		{"user1", "Amelia", "Earhart", "amelia@example.com", "+15550100", "P1234567", users.RoleUser},
		{"user2", "Charles", "Lindbergh", "charles@example.com", "+15550101", "P7654321", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Phone:     userData.phone,
			Passport:  userData.passport,
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedFlights creates sample flights across the next three months
func (s *Seeder) SeedFlights(adminID uuid.UUID) ([]uuid.UUID, error) {
	fmt.Println("  ✈️ Seeding flights...")

	var flightIDs []uuid.UUID

	flightsData := []struct {
		flightNumber  string
		origin        string
		destination   string
		daysFromNow   int
		departureTime string
		arrivalTime   string
		duration      string
		price         float64
		totalCapacity int
	}{
		{"SB101", "New York (JFK)", "London (LHR)", 7, "08:30", "20:45", "7h 15m", 540.00, 180},
		{"SB102", "London (LHR)", "New York (JFK)", 8, "11:00", "14:10", "8h 10m", 565.00, 180},
		{"SB205", "San Francisco (SFO)", "Tokyo (NRT)", 14, "13:15", "17:05", "10h 50m", 820.00, 240},
		{"SB206", "Tokyo (NRT)", "San Francisco (SFO)", 18, "18:40", "11:25", "9h 45m", 790.00, 240},
		{"SB310", "Paris (CDG)", "Dubai (DXB)", 21, "09:20", "18:05", "6h 45m", 430.00, 210},
		{"SB311", "Dubai (DXB)", "Paris (CDG)", 25, "02:30", "07:50", "7h 20m", 415.00, 210},
		{"SB412", "Singapore (SIN)", "Sydney (SYD)", 30, "23:55", "09:10", "8h 15m", 505.00, 160},
		{"SB520", "Berlin (BER)", "Rome (FCO)", 35, "06:45", "08:50", "2h 05m", 120.00, 120},
		{"SB521", "Rome (FCO)", "Berlin (BER)", 35, "10:10", "12:20", "2h 10m", 125.00, 120},
		{"SB630", "Chicago (ORD)", "Miami (MIA)", 45, "15:30", "19:40", "3h 10m", 185.00, 150},
		{"SB741", "Toronto (YYZ)", "Vancouver (YVR)", 60, "07:00", "09:05", "5h 05m", 260.00, 170},
		{"SB850", "Amsterdam (AMS)", "Barcelona (BCN)", 75, "17:25", "19:35", "2h 10m", 98.00, 140},
	}

	for _, flightData := range flightsData {
		departureDate := time.Now().AddDate(0, 0, flightData.daysFromNow).Truncate(24 * time.Hour)

		flight := flights.Flight{
			ID:            uuid.New(),
			FlightNumber:  flightData.flightNumber,
			Origin:        flightData.origin,
			Destination:   flightData.destination,
			DepartureDate: departureDate,
			DepartureTime: flightData.departureTime,
			ArrivalTime:   flightData.arrivalTime,
			Duration:      flightData.duration,
			Price:         flightData.price,
			TotalCapacity: flightData.totalCapacity,
			BookedCount:   0,
			Status:        flights.FlightStatusScheduled,
			CreatedBy:     adminID,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&flight).Error; err != nil {
			return nil, fmt.Errorf("failed to create flight %s: %w", flight.FlightNumber, err)
		}

		flightIDs = append(flightIDs, flight.ID)
		fmt.Printf("    ✅ Created flight: %s %s -> %s on %s\n",
			flight.FlightNumber, flight.Origin, flight.Destination, flight.DepartureDate.Format("2006-01-02"))
	}

	return flightIDs, nil
}
