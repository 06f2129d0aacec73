package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Dev-наполнение базы тестовыми данными. На проде не запускать.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	defer db.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedAccounts(db, 3, 20); err != nil {
		log.Fatalf("seed accounts: %v", err)
	}
	if err := seedAppointments(db, 60); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func seedAccounts(db *sql.DB, vets, patients int) error {
	log.Printf("seeding %d vets and %d patients", vets, patients)

	// один пароль на все тестовые аккаунты
	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO accounts (name, surname, email, phone, password_hash, role, active, verified)
		VALUES ($1,$2,$3,$4,$5,$6,TRUE,TRUE)
		ON CONFLICT (email) DO NOTHING
	`
	insert := func(role string, n int) error {
		for i := 0; i < n; i++ {
			email := fmt.Sprintf("%s%d@gmail.com", role, i+1)
			if _, err := db.Exec(q,
				gofakeit.FirstName(), gofakeit.LastName(), email,
				gofakeit.Phone(), string(hash), role,
			); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert("veterinarian", vets); err != nil {
		return err
	}
	if err := insert("patient", patients); err != nil {
		return err
	}

	// админ для ручных проверок
	if _, err := db.Exec(q, "Admin", "Admin", "admin@gmail.com", "", string(hash), "admin"); err != nil {
		return err
	}

	log.Println("accounts seeded")
	return nil
}

func seedAppointments(db *sql.DB, count int) error {
	log.Printf("seeding %d appointments", count)

	species := []string{"dog", "cat", "bird", "rabbit", "reptile", "other"}
	sexes := []string{"male", "female"}
	slots := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "12:00", "16:00", "17:00"}

	const q = `
		INSERT INTO appointments (
			owner_name, owner_surname, owner_email, owner_phone,
			pet_name, pet_age, pet_species, pet_sex,
			date, time_slot, description, status
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,'pending')
	`
	for i := 0; i < count; i++ {
		date := time.Now().AddDate(0, 0, gofakeit.Number(1, 30)).Format("2006-01-02")
		if _, err := db.Exec(q,
			gofakeit.FirstName(), gofakeit.LastName(), gofakeit.Email(), gofakeit.Phone(),
			gofakeit.PetName(), gofakeit.Number(1, 15),
			species[gofakeit.Number(0, len(species)-1)],
			sexes[gofakeit.Number(0, len(sexes)-1)],
			date, slots[gofakeit.Number(0, len(slots)-1)],
			gofakeit.Sentence(8),
		); err != nil {
			return err
		}
	}

	log.Println("appointments seeded")
	return nil
}
