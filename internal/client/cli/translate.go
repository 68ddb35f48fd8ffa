package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/babelx/internal/client/models"
	"github.com/dmitrijs2005/babelx/internal/client/services"
	"github.com/dmitrijs2005/babelx/internal/common"
)

// Translate translates text, prompting for it when empty.
func (a *App) Translate(ctx context.Context, text string) error {
	if text == "" {
		var err error
		text, err = getSimpleText(a.reader, "Enter text to translate", a.out)
		if err != nil {
			return err
		}
	}

	rec, err := a.translator.Translate(ctx, a.user(), text, a.source, a.target)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidInput) {
			fmt.Fprintln(a.out, "Please enter text to translate.")
			return nil
		}
		return fmt.Errorf("translation error: %w", err)
	}

	fmt.Fprintf(a.out, "%s: %s\n", models.LanguageName(rec.TargetLanguage), rec.TranslatedText)
	return nil
}

// Transcribe uploads an audio file and translates what was said.
func (a *App) Transcribe(ctx context.Context, path string) error {
	if path == "" {
		var err error
		path, err = getSimpleText(a.reader, "Path to audio file", a.out)
		if err != nil {
			return err
		}
	}

	transcript, rec, err := a.translator.TranscribeAndTranslate(ctx, a.user(), path, a.source, a.target)
	if transcript != "" {
		fmt.Fprintf(a.out, "Heard: %s\n", transcript)
	}
	if errors.Is(err, services.ErrNoSpeech) {
		fmt.Fprintln(a.out, "Could not transcribe.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("transcription error: %w", err)
	}

	fmt.Fprintf(a.out, "%s: %s\n", models.LanguageName(rec.TargetLanguage), rec.TranslatedText)
	return nil
}

func (a *App) Languages(ctx context.Context) error {
	for _, l := range models.Languages {
		mark := " "
		switch l.Code {
		case a.source:
			mark = "<"
		case a.target:
			mark = ">"
		}
		fmt.Fprintf(a.out, "%s %s  %s\n", mark, l.Code, l.Name)
	}
	return nil
}

// SetLanguage sets the source or target language from a code or a name.
func (a *App) SetLanguage(ctx context.Context, which, code string) error {
	if !models.IsKnownLanguage(code) {
		return fmt.Errorf("%w: unknown language %q", common.ErrorInvalidInput, code)
	}
	code = models.NormalizeLanguage(code)
	if which == "source" {
		a.source = code
	} else {
		a.target = code
	}
	fmt.Fprintf(a.out, "Translating %s → %s\n", models.LanguageName(a.source), models.LanguageName(a.target))
	return nil
}

func (a *App) Swap(ctx context.Context) error {
	a.source, a.target = a.target, a.source
	fmt.Fprintf(a.out, "Translating %s → %s\n", models.LanguageName(a.source), models.LanguageName(a.target))
	return nil
}
