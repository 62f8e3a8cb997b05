package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
)

// maxInputChars is the longest input the speech endpoint accepts
const maxInputChars = 4096

var (
	ErrEmptyText = errors.New("empty text")
)

// SpeechCreator is the part of the OpenAI client used for synthesis
type SpeechCreator interface {
	CreateSpeech(ctx context.Context, req openai.CreateSpeechRequest) (openai.RawResponse, error)
}

// Synthesizer converts narration text into MP3 audio
type Synthesizer struct {
	client SpeechCreator
	model  openai.SpeechModel
	voice  openai.SpeechVoice
}

// NewSynthesizer creates an OpenAI backed synthesizer
func NewSynthesizer(client SpeechCreator, model, voice string) *Synthesizer {
	if model == "" {
		model = string(openai.TTSModel1)
	}
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}
	return &Synthesizer{
		client: client,
		model:  openai.SpeechModel(model),
		voice:  openai.SpeechVoice(voice),
	}
}

// Synthesize returns MP3 bytes for text. Text longer than the endpoint limit
// is split on sentence boundaries and the MP3 frames are concatenated.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	var out []byte
	for _, part := range splitInput(text, maxInputChars) {
		audio, err := s.synthesizePart(ctx, part)
		if err != nil {
			return nil, err
		}
		out = append(out, audio...)
	}
	return out, nil
}

func (s *Synthesizer) synthesizePart(ctx context.Context, text string) ([]byte, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech response: %w", err)
	}
	return data, nil
}

// splitInput breaks text into pieces of at most limit bytes, preferring to
// cut after a sentence terminator and falling back to a space.
func splitInput(text string, limit int) []string {
	text = strings.TrimSpace(text)
	var parts []string
	for len(text) > limit {
		cut := strings.LastIndexAny(text[:limit], ".!?")
		if cut <= 0 {
			cut = strings.LastIndex(text[:limit], " ")
		}
		if cut <= 0 {
			cut = limit
			for cut > 1 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			cut--
		}
		parts = append(parts, strings.TrimSpace(text[:cut+1]))
		text = strings.TrimSpace(text[cut+1:])
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}
