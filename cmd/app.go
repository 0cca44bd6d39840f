package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/greenroots/greenroots-backend/config"
	"github.com/greenroots/greenroots-backend/database"
	"github.com/greenroots/greenroots-backend/internal/auditlog"
	"github.com/greenroots/greenroots-backend/internal/content"
	"github.com/greenroots/greenroots-backend/internal/event"
	"github.com/greenroots/greenroots-backend/internal/live"
	"github.com/greenroots/greenroots-backend/internal/page"
	"github.com/greenroots/greenroots-backend/internal/pipeline"
	"github.com/greenroots/greenroots-backend/internal/submission"
	"github.com/greenroots/greenroots-backend/utils"
)

// openStore picks the content backend named by CONTENT_STORE. The
// publisher is nil for stores that are edited elsewhere.
func openStore(cfg *config.Config) (content.Store, content.Publisher, error) {
	switch cfg.ContentStore {
	case config.StoreFirebase:
		if err := utils.InitFirebase(cfg); err != nil {
			return nil, nil, err
		}
		poll := time.Duration(cfg.ContentPollSeconds) * time.Second
		return content.NewFirebaseStore(utils.GetDatabaseClient(), poll), nil, nil

	case config.StoreRedis:
		if utils.RedisClient == nil {
			if err := utils.InitRedis(cfg); err != nil {
				return nil, nil, err
			}
		}
		store := content.NewRedisStore(utils.RedisClient)
		return store, store, nil

	case config.StoreFile:
		store := content.NewFileStore(cfg.ContentDir)
		return store, store, nil
	}
	return nil, nil, fmt.Errorf("unknown CONTENT_STORE %q", cfg.ContentStore)
}

// openRemote picks the submission backend. nil means local only.
func openRemote(cfg *config.Config) submission.RemoteWriter {
	switch cfg.SubmissionBackend {
	case config.SubmissionNone:
		return nil
	case config.SubmissionRTDB, config.SubmissionFirestore:
		if err := utils.InitFirebase(cfg); err != nil {
			log.Printf("⚠️ Firebase unavailable, submissions will be stored locally: %v", err)
			return nil
		}
	default:
		log.Printf("⚠️ Unknown SUBMISSION_BACKEND %q, submissions will be stored locally", cfg.SubmissionBackend)
		return nil
	}

	if cfg.SubmissionBackend == config.SubmissionFirestore {
		if client := utils.GetFirestoreClient(); client != nil {
			return submission.NewFirestoreWriter(client)
		}
		log.Println("⚠️ Firestore client unavailable, submissions will be stored locally")
		return nil
	}
	return submission.NewRTDBWriter(utils.GetDatabaseClient())
}

func openAudit(cfg *config.Config) auditlog.Service {
	if !cfg.DatabaseConfigured() {
		log.Println("ℹ️ DB_HOST not set, audit entries go to the log only")
		return auditlog.NewService(auditlog.NewLogRepository())
	}
	db, err := database.Connect(cfg)
	if err != nil {
		log.Printf("⚠️ Audit database unavailable, logging only: %v", err)
		return auditlog.NewService(auditlog.NewLogRepository())
	}
	log.Println("🔄 Running database migrations...")
	if err := auditlog.Migrate(db); err != nil {
		log.Printf("⚠️ Audit migration failed, logging only: %v", err)
		return auditlog.NewService(auditlog.NewLogRepository())
	}
	log.Println("✅ Database migrations completed")
	return auditlog.NewService(auditlog.NewRepository(db))
}

func sitePolicy(cfg *config.Config) (*event.Policy, error) {
	loc := time.Local
	if cfg.SiteTimezone != "" {
		l, err := time.LoadLocation(cfg.SiteTimezone)
		if err != nil {
			return nil, fmt.Errorf("SITE_TIMEZONE: %w", err)
		}
		loc = l
	}
	return event.NewPolicy(loc, time.Now), nil
}

// newPipeline loads the page template and builds a pipeline over store.
// broadcaster may be nil.
func newPipeline(cfg *config.Config, store content.Store, broadcaster pipeline.Broadcaster) (*pipeline.Pipeline, error) {
	doc, err := page.Load(cfg.PageTemplate)
	if err != nil {
		return nil, err
	}
	policy, err := sitePolicy(cfg)
	if err != nil {
		return nil, err
	}
	return pipeline.New(store, doc, pipeline.Options{
		FetchTimeout: time.Duration(cfg.FetchTimeoutSeconds) * time.Second,
		Policy:       policy,
		Broadcaster:  broadcaster,
	}), nil
}

func newSubmissions(cfg *config.Config, auditSvc auditlog.Service) (*submission.Service, error) {
	if utils.RedisClient == nil {
		return nil, errors.New("submissions need Redis for their local copy")
	}
	var publisher submission.Publisher
	if utils.KafkaWriter != nil {
		publisher = submission.NewKafkaPublisher(utils.KafkaWriter)
	}
	local := submission.NewRedisLocalStore(utils.RedisClient)
	return submission.NewService(openRemote(cfg), local, publisher, auditSvc), nil
}

func newHub() *live.Hub {
	return live.NewHub(utils.RedisClient, live.DefaultChannel)
}
