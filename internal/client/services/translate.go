package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/babelx/internal/client/client"
	"github.com/dmitrijs2005/babelx/internal/client/models"
	"github.com/dmitrijs2005/babelx/internal/common"
	"github.com/dmitrijs2005/babelx/internal/logging"
)

// ErrNoSpeech is returned when the transcriber found nothing to translate.
var ErrNoSpeech = errors.New("no speech recognised")

// noTranscription is what the transcribe endpoint answers for silent audio.
const noTranscription = "No transcription"

type TranslateService interface {
	Translate(ctx context.Context, user, text, source, target string) (models.Record, error)
	TranscribeAndTranslate(ctx context.Context, user, path, source, target string) (string, models.Record, error)
}

type translateService struct {
	client  client.Client
	library LibraryService
	log     logging.Logger
}

func NewTranslateService(c client.Client, lib LibraryService, log logging.Logger) TranslateService {
	return &translateService{client: c, library: lib, log: log.With("component", "translate")}
}

// Translate sends text to the remote translator and records the result in
// the user's history. Nothing is recorded when the remote call fails.
func (s *translateService) Translate(ctx context.Context, user, text, source, target string) (models.Record, error) {
	if strings.TrimSpace(text) == "" {
		return models.Record{}, fmt.Errorf("%w: text is empty", common.ErrorInvalidInput)
	}
	source = models.NormalizeLanguage(source)
	target = models.NormalizeLanguage(target)

	translated, err := s.client.Translate(ctx, client.TranslateRequest{Text: text, Source: source, Target: target})
	if err != nil {
		s.log.Warn(ctx, "translate failed", "source", source, "target", target, "err", err)
		return models.Record{}, err
	}

	rec, err := s.library.Record(ctx, user, RecordInput{
		Source:     source,
		Target:     target,
		Input:      text,
		Translated: translated,
	})
	if err != nil {
		return models.Record{}, fmt.Errorf("save translation: %w", err)
	}
	return rec, nil
}

// TranscribeAndTranslate uploads the audio file at path, then translates the
// transcript. The transcript is returned even when translation fails.
func (s *translateService) TranscribeAndTranslate(ctx context.Context, user, path, source, target string) (string, models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", models.Record{}, fmt.Errorf("%w: %v", common.ErrorInvalidInput, err)
	}
	defer f.Close()

	transcript, err := s.client.Transcribe(ctx, filepath.Base(path), f)
	if err != nil {
		s.log.Warn(ctx, "transcribe failed", "path", path, "err", err)
		return "", models.Record{}, err
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" || transcript == noTranscription {
		return transcript, models.Record{}, ErrNoSpeech
	}

	rec, err := s.Translate(ctx, user, transcript, source, target)
	return transcript, rec, err
}
