package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"homeclean/internal/database"
	"homeclean/internal/domain"
	"homeclean/internal/repository"
)

// Seeds a demo dataset: staff accounts, a couple of clients, their
// properties, and quotes across the lifecycle so the staff dashboard has
// something to show.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "homeclean.db"
	}

	db, err := database.Open(dsn)
	if err != nil {
		log.Fatal("db connection failed:", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("migrate failed:", err)
	}

	log.Println("cleaning old data...")
	db.Exec("DELETE FROM quotes")
	db.Exec("DELETE FROM properties")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	properties := repository.NewPropertyRepository(db)
	quotes := repository.NewQuoteRepository(db)

	log.Println("creating users...")

	seedUser(ctx, users, "sofia@brightandtidy.com", "owner123", "Sofia Reyes", "512-555-0001", domain.RoleOwner, domain.LangSpanish)
	log.Println("owner created: sofia@brightandtidy.com / owner123")

	employee := seedUser(ctx, users, "dan@brightandtidy.com", "employee123", "Dan Walker", "512-555-0002", domain.RoleEmployee, domain.LangEnglish)
	log.Println("employee created: dan@brightandtidy.com / employee123")

	maria := seedUser(ctx, users, "maria@example.com", "client123", "Maria Lopez", "512-555-0100", domain.RoleClient, domain.LangSpanish)
	james := seedUser(ctx, users, "james@example.com", "client123", "James Carter", "512-555-0101", domain.RoleClient, domain.LangEnglish)
	log.Println("clients created: maria@example.com, james@example.com / client123")

	log.Println("creating properties...")

	sqft, beds, baths := 1850, 3, 2
	mariaHome := &domain.Property{
		OwnerID: maria.ID,
		Type:    domain.PropertyResidential,
		Subtype: "house",
		Name:    "Home",
		Address: domain.Address{Line1: "1204 Willow Creek Dr", City: "Austin", State: "TX", Zip: "78741"},
		Size:    domain.PropertySize{Sqft: &sqft, Beds: &beds, Baths: &baths},
		Access:  domain.AccessInfo{Method: "code", Notes: "gate code 4412"},
		Parking: domain.ParkingInfo{Type: "driveway"},
		Pets:    []domain.PetInfo{{Kind: "dog", Notes: "friendly, stays in yard"}},
		Preferences: domain.CleaningPrefs{
			FragranceFree: true,
			Supplies:      "bring_all",
		},
		IsDefault: true,
	}
	if err := properties.Create(ctx, mariaHome); err != nil {
		log.Fatal(err)
	}

	log.Println("creating quotes...")

	// A raw anonymous draft, still keyed.
	draft := newDraft()
	draft.Contact = domain.Contact{
		Name:      "Walk-in visitor",
		Phone:     "",
		CallPrefs: domain.CallPrefs{BestTime: "any", VoicemailOK: true},
	}
	if err := quotes.Create(ctx, draft); err != nil {
		log.Fatal(err)
	}

	// Maria's submitted quote linked to her saved property, already worked
	// by staff.
	submitted := newDraft()
	submitted.Status = domain.QuoteSubmitted
	submitted.DraftKey = nil
	submitted.ClientID = &maria.ID
	submitted.PropertyID = &mariaHome.ID
	submitted.Contact = domain.Contact{
		Name:      maria.Name,
		Email:     maria.Email,
		Phone:     maria.Phone,
		CallPrefs: domain.CallPrefs{BestTime: "morning", VoicemailOK: true},
	}
	submitted.Frequency = domain.FrequencyBiweekly
	submitted.SpecialAreas = []string{"oven", "fridge"}
	submitted.Notes = "Prefers Spanish-speaking crew"
	submitted.Admin.LeadStatus = domain.LeadCalled
	submitted.Admin.AssignedTo = &employee.ID
	if err := quotes.Create(ctx, submitted); err != nil {
		log.Fatal(err)
	}

	// James submitted with an inline snapshot, not yet called.
	snapshot := newDraft()
	snapshot.Status = domain.QuoteSubmitted
	snapshot.DraftKey = nil
	snapshot.ClientID = &james.ID
	snapshot.PropertySnapshot = &domain.PropertySnapshot{
		Type:    "residential",
		Subtype: "apartment",
		Address: domain.Address{Line1: "88 Congress Ave", Line2: "Apt 12B", City: "Austin", State: "TX", Zip: "78701"},
	}
	snapshot.Contact = domain.Contact{
		Name:      james.Name,
		Email:     james.Email,
		Phone:     james.Phone,
		CallPrefs: domain.CallPrefs{BestTime: "evening", VoicemailOK: false},
	}
	snapshot.ConditionLevel = domain.ConditionHeavy
	snapshot.TargetWindow = domain.TargetWindow{Date: "2026-09-15", Slot: domain.SlotAfternoon, Flexible: false}
	if err := quotes.Create(ctx, snapshot); err != nil {
		log.Fatal(err)
	}

	log.Println("seed complete")
}

func seedUser(ctx context.Context, users *repository.UserRepository, email, password, name, phone string, role domain.UserRole, lang domain.Language) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	u := &domain.User{
		Email:             email,
		PasswordHash:      string(hash),
		Name:              name,
		Phone:             phone,
		Role:              role,
		PreferredLanguage: lang,
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatal(err)
	}
	return u
}

func newDraft() *domain.Quote {
	key := "seed-draft-key-0000000000000000"
	return &domain.Quote{
		Status:         domain.QuoteDraft,
		DraftKey:       &key,
		Frequency:      domain.FrequencyOneTime,
		ConditionLevel: domain.ConditionStandard,
		SpecialAreas:   []string{},
		Surfaces:       []string{},
		Photos:         []domain.QuotePhoto{},
		Contact: domain.Contact{
			CallPrefs: domain.CallPrefs{BestTime: "any", VoicemailOK: true},
		},
		TargetWindow: domain.TargetWindow{Slot: domain.SlotMorning, Flexible: true},
		Admin: domain.QuoteAdmin{
			LeadStatus: domain.LeadNew,
			Timeline:   []domain.TimelineEvent{},
		},
	}
}
