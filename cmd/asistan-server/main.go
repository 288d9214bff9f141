package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"

	"asistan/internal/assistant"
	"asistan/internal/catalog"
	"asistan/internal/config"
	"asistan/internal/dispatch"
	"asistan/internal/domain"
	"asistan/internal/history"
	"asistan/internal/mqtt"
	"asistan/internal/resolver"
	"asistan/internal/speech"
	"asistan/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	fsys := afero.NewOsFs()

	cfg, err := config.LoadServerConfig(fsys)
	if err != nil {
		logger.Error("load config failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat, err := catalog.Load(fsys, cfg.CatalogPath, logger)
	if err != nil {
		logger.Error("load catalog failed", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}

	res := resolver.New(cat, resolver.NewModelStore(fsys, cfg.ModelPath, logger), logger,
		resolver.WithThreshold(cfg.Threshold),
		resolver.WithMaxFeatures(cfg.MaxFeatures))
	if err := res.EnsureModel(); err != nil {
		logger.Warn("model unavailable, rule fallback only", "error", err)
	}

	notes := store.OpenNotes(fsys, cfg.NotesPath, logger)
	reminders := store.OpenReminders(fsys, cfg.RemindersPath, logger)
	dispatcher := dispatch.New(notes, reminders, logger)

	svcOpts := []assistant.Option{}

	var turnLog *history.Store
	if cfg.DBDSN != "" {
		turnLog, err = history.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Error("connect db failed", "error", err)
			os.Exit(1)
		}
		defer turnLog.Close()
		if err := turnLog.Migrate(ctx); err != nil {
			logger.Error("migrate db failed", "error", err)
			os.Exit(1)
		}
		svcOpts = append(svcOpts, assistant.WithTurnLog(turnLog))
	}

	svc := assistant.New(res, dispatcher, notes, reminders, logger, svcOpts...)

	var speaker speech.Speaker = speech.NopSpeaker{}
	var presence *mqtt.Presence
	if cfg.MQTTBrokerURL != "" {
		presence = mqtt.NewPresence(cfg.PresenceTTL)
		hub := mqtt.NewHub(mqtt.HubConfig{
			BrokerURL:   cfg.MQTTBrokerURL,
			ClientID:    cfg.MQTTClientID,
			Username:    cfg.MQTTUsername,
			Password:    cfg.MQTTPassword,
			TopicPrefix: cfg.MQTTTopicPrefix,
		}, presence, svc, logger)
		if err := hub.Start(ctx); err != nil {
			logger.Error("start mqtt hub failed", "error", err)
			os.Exit(1)
		}
		speaker = hub
		logger.Info("mqtt bridge enabled", "broker", cfg.MQTTBrokerURL, "prefix", cfg.MQTTTopicPrefix)
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Post("/v1/chat", func(w http.ResponseWriter, req *http.Request) {
		var chatReq domain.ChatRequest
		if err := json.NewDecoder(req.Body).Decode(&chatReq); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
			return
		}

		resp, err := svc.HandleUtterance(req.Context(), chatReq)
		if err != nil {
			logger.Error("chat failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		if chatReq.TerminalID != "" {
			speaker.Speak(req.Context(), chatReq.TerminalID, resp.Reply)
		}
		writeJSON(w, http.StatusOK, resp)
	})
	var transcriber speech.Transcriber
	if cfg.TranscribeBaseURL != "" {
		transcriber = speech.NewClient(cfg.TranscribeBaseURL, cfg.TranscribeTimeout)
	}
	r.Post("/v1/chat/audio", func(w http.ResponseWriter, req *http.Request) {
		if transcriber == nil {
			writeJSON(w, http.StatusNotImplemented, map[string]any{"error": "transcription service is not configured"})
			return
		}
		audio, err := io.ReadAll(http.MaxBytesReader(w, req.Body, 10<<20))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "read audio failed"})
			return
		}
		text, err := transcriber.Transcribe(req.Context(), audio)
		if err != nil {
			logger.Error("transcribe failed", "error", err)
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error()})
			return
		}

		terminalID := req.URL.Query().Get("terminal_id")
		resp, err := svc.HandleUtterance(req.Context(), domain.ChatRequest{
			SessionID:  req.URL.Query().Get("session_id"),
			TerminalID: terminalID,
			Text:       text,
		})
		if err != nil {
			logger.Error("chat failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		if terminalID != "" {
			speaker.Speak(req.Context(), terminalID, resp.Reply)
		}
		writeJSON(w, http.StatusOK, resp)
	})
	r.Get("/v1/notes", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"notes": notes.List()})
	})
	r.Get("/v1/reminders", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"reminders": reminders.List()})
	})
	r.Get("/v1/stats", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, svc.Stats(req.Context()))
	})
	r.Get("/v1/terminals", func(w http.ResponseWriter, _ *http.Request) {
		if presence == nil {
			writeJSON(w, http.StatusNotImplemented, map[string]any{"error": "mqtt bridge is not configured"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"terminals": presence.ListOnline()})
	})
	r.Get("/v1/history", func(w http.ResponseWriter, req *http.Request) {
		if turnLog == nil {
			writeJSON(w, http.StatusNotImplemented, map[string]any{"error": "history store is not configured"})
			return
		}
		limit := cfg.HistoryLimit
		if v := req.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		turns, err := turnLog.RecentTurns(req.Context(), req.URL.Query().Get("session_id"), limit)
		if err != nil {
			logger.Error("list history failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"turns": turns})
	})
	r.Get("/v1/history/{turnID}", func(w http.ResponseWriter, req *http.Request) {
		if turnLog == nil {
			writeJSON(w, http.StatusNotImplemented, map[string]any{"error": "history store is not configured"})
			return
		}
		turn, err := turnLog.GetTurn(req.Context(), chi.URLParam(req, "turnID"))
		if errors.Is(err, history.ErrTurnNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "turn not found"})
			return
		}
		if err != nil {
			logger.Error("get turn failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, turn)
	})
	r.Post("/v1/train", func(w http.ResponseWriter, _ *http.Request) {
		accuracy, err := svc.Train()
		if err != nil {
			logger.Error("train failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"accuracy": accuracy})
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("asistan server started", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("received shutdown signal")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
