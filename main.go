package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Vantled/balikbayani-sub001/internal/api"
	"github.com/Vantled/balikbayani-sub001/internal/config"
	"github.com/Vantled/balikbayani-sub001/internal/controller"
	"github.com/Vantled/balikbayani-sub001/internal/draft"
	"github.com/Vantled/balikbayani-sub001/internal/form"
	"github.com/Vantled/balikbayani-sub001/internal/logger"
	"github.com/Vantled/balikbayani-sub001/internal/mockapi"
	"github.com/Vantled/balikbayani-sub001/internal/schema"
)

// answersFile scripts one intake session: field values plus file paths to
// attach per document slot.
type answersFile struct {
	Fields map[string]string `json:"fields"`
	Files  map[string]string `json:"files"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(cfg)

	if cfg.MockBackend {
		srv := mockapi.New(log, cfg.MockJWTSecret)
		go func() {
			if err := http.ListenAndServe(cfg.MockAddr, srv.Handler()); err != nil {
				log.WithError(err).Fatal("mock backend failed")
			}
		}()
		cfg.APIBaseURL = "http://" + cfg.MockAddr
		if cfg.APIToken == "" {
			token, err := mockapi.IssueToken(cfg.MockJWTSecret, "dev", time.Hour)
			if err != nil {
				log.WithError(err).Fatal("mock token issue failed")
			}
			cfg.APIToken = token
		}
		log.WithField("addr", cfg.MockAddr).Info("embedded mock backend running")
	}

	module := schema.ByKey(cfg.Module)
	if module == nil {
		log.WithField("module", cfg.Module).Fatal("unknown module")
	}

	var drafts *draft.Store
	if cfg.DraftDBPath != "" {
		drafts, err = draft.Open(cfg.DraftDBPath)
		if err != nil {
			log.WithError(err).Warn("draft store unavailable, continuing without drafts")
			drafts = nil
		} else {
			defer drafts.Close()
		}
	}

	client := api.New(cfg.APIBaseURL, cfg.APIToken, cfg.HTTPTimeout)
	session := controller.NewSession(module, client, drafts, controller.NewLogNotifier(log), log, controller.Options{
		ApplicationID: cfg.ApplicationID,
		Correction:    cfg.Correction,
		Redirect: func() {
			log.Warn("session expired, please log in again")
			os.Exit(1)
		},
	})
	defer session.Close()

	ctx := context.Background()
	if err := session.Load(ctx); err != nil {
		log.WithError(err).Fatal("session load failed")
	}
	log.WithFields(map[string]any{"module": module.Key, "step": session.Step()}).Info("session ready")

	if cfg.AnswersFile == "" {
		log.Info("no answers file configured, nothing to submit")
		return
	}

	answers, err := readAnswers(cfg.AnswersFile)
	if err != nil {
		log.WithError(err).Fatal("answers file unreadable")
	}
	for key, value := range answers.Fields {
		if err := session.SetField(key, value); err != nil {
			log.WithError(err).WithField("field", key).Warn("field skipped")
		}
	}
	for key, path := range answers.Files {
		content, err := os.ReadFile(path)
		if err != nil {
			log.WithError(err).WithField("document", key).Warn("attachment skipped")
			continue
		}
		if err := session.AttachFile(key, filepath.Base(path), form.DetectContentType(path), content); err != nil {
			log.WithError(err).WithField("document", key).Warn("attachment skipped")
		}
	}

	for session.Step() != schema.StepReview {
		step, errs, err := session.Next()
		if err != nil {
			log.WithFields(map[string]any{"step": step, "errors": errs}).Fatal("form incomplete")
		}
		log.WithField("step", step).Info("advanced")
	}

	controlNumber, err := session.Submit(ctx)
	if err != nil {
		log.WithError(err).Fatal("submission failed")
	}
	log.WithField("controlNumber", controlNumber).Info("submitted")
}

func readAnswers(path string) (*answersFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var a answersFile
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
