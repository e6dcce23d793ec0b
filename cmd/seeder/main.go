package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm/logger"

	"github.com/quocanhngo/signalsender/internal/config"
	"github.com/quocanhngo/signalsender/internal/database"
	"github.com/quocanhngo/signalsender/internal/model"
	"github.com/quocanhngo/signalsender/internal/payload"
	"github.com/quocanhngo/signalsender/internal/repository"
	"github.com/quocanhngo/signalsender/internal/service"
)

const demoEmail = "owner@signalsender.local"

func main() {
	// Load config
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	db, err := database.Open(cfg.DB, true)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	// Force DB logging off to avoid noise
	db.Logger = logger.Default.LogMode(logger.Silent)
	log.Println("✅ Connected to Database")

	if err := database.Migrate(db, cfg.DB, zap.NewNop()); err != nil {
		log.Fatalf("❌ Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	recipientRepo := repository.NewRecipientRepository(db)
	alertLogRepo := repository.NewAlertLogRepository(db)

	// Recipient
	active, err := recipientRepo.FindActive(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to read recipients: %v", err)
	}
	if active == nil || active.Email != demoEmail {
		r, err := service.NewRecipientService(recipientRepo).Register(ctx, demoEmail)
		if err != nil {
			log.Fatalf("❌ Failed to register recipient: %v", err)
		}
		log.Printf("✅ Registered recipient: %s", r.Email)
	} else {
		log.Printf("🔄 Recipient already active: %s", active.Email)
	}

	// Alert history
	existing, err := alertLogRepo.List(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to read alert logs: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("🔄 %d alert logs already present, skipping", len(existing))
		log.Println("🎉 Seeding completed!")
		return
	}

	log.Println("🌱 Seeding alert history...")
	for i, raw := range []string{
		`{"door_status":"closed","alert":false}`,
		`{"door_status":"open","alert":false,"duration":4}`,
		`{"door_status":"open","alert":true,"duration":45}`,
		`{"door_status":"closed","alert":false}`,
		`{"door_status":"open","alert":true,"duration":120}`,
	} {
		seedLog(ctx, alertLogRepo, raw, time.Now().Add(time.Duration(i-5)*time.Hour))
	}

	log.Println("🎉 Seeding completed!")
}

// seedLog stores raw as an alert log at the given time. Alerts are marked as
// emailed so the dashboard shows both states.
func seedLog(ctx context.Context, repo *repository.AlertLogRepository, raw string, at time.Time) {
	sig, err := payload.Parse([]byte(raw))
	if err != nil {
		log.Printf("❌ Bad seed payload %s: %v", raw, err)
		return
	}

	entry := &model.AlertLog{
		DoorStatus: sig.DoorStatus,
		IsAlert:    sig.Alert,
		Duration:   sig.Duration,
		RawPayload: datatypes.JSON(raw),
		Timestamp:  at,
	}
	if err := repo.Create(ctx, entry); err != nil {
		log.Printf("❌ Failed to create log: %v", err)
		return
	}
	if sig.Alert {
		if _, err := repo.MarkEmailSent(ctx, entry.ID); err != nil {
			log.Printf("❌ Failed to mark log %d: %v", entry.ID, err)
			return
		}
	}
	log.Printf("✅ Created log #%d: %s alert=%t", entry.ID, entry.DoorStatus, entry.IsAlert)
}
