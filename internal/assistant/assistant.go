// Package assistant is the menu chatbot and the mascot image. Both calls go
// to a generative API and both always produce something for the customer:
// failures are logged and replaced by fixed fallbacks.
package assistant

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/domain"
	"ghost-kitchen/internal/menu"
	"ghost-kitchen/internal/store"
)

const (
	FallbackReply     = "Lo siento, mi cerebro de hamburguesa se sobrecalentó. ¡Prueba nuestra Clásica con doble carne artesanal!"
	UndecidedReply    = "¡No pude decidirme! Pero nuestras hamburguesas artesanales en Origen son de otro nivel."
	FallbackMascotURL = "https://images.unsplash.com/photo-1550547660-d9450f859349?auto=format&fit=crop&w=200&q=80"

	mascotPrompt = "A high-quality cartoon mascot logo of a hamburger character heroically holding a large medieval silver sword. Isolated on a dark flat background."
	maxQuestion  = 1000
	source       = "assistant"
)

// Image is generated binary content.
type Image struct {
	MIMEType string
	Data     []byte
}

// Generator is the generative API. Gemini is the production one.
type Generator interface {
	Text(ctx context.Context, system, prompt string, temperature float32) (string, error)
	Image(ctx context.Context, prompt string) (Image, error)
}

// Cache holds the mascot between calls; the repository satisfies it.
type Cache interface {
	Value(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value, source string) error
}

type Options struct {
	Temperature float32
	Timeout     time.Duration
}

type Service struct {
	gen   Generator
	cache Cache
	opts  Options

	system string
	sf     singleflight.Group
	lg     *logger.Logger
}

// NewService accepts a nil generator: every call then answers with the
// fallbacks.
func NewService(gen Generator, cache Cache, opts Options) (*Service, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	system, err := systemPrompt(menu.All())
	if err != nil {
		return nil, err
	}
	return &Service{gen: gen, cache: cache, opts: opts, system: system, lg: logger.New(source)}, nil
}

func (s *Service) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}
	if len([]rune(question)) > maxQuestion {
		return "", fmt.Errorf("%w: message longer than %d characters", domain.ErrInvalidInput, maxQuestion)
	}
	if s.gen == nil {
		return FallbackReply, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	reply, err := s.gen.Text(ctx, s.system, question, s.opts.Temperature)
	if err != nil {
		s.lg.ErrorCtx(ctx, "assistant_call_failed", err, nil)
		return FallbackReply, nil
	}
	if strings.TrimSpace(reply) == "" {
		return UndecidedReply, nil
	}
	return reply, nil
}

// Mascot returns the cached mascot as a data URL, generating it on first use.
// Concurrent first calls share one generation. Failures are not cached.
func (s *Service) Mascot(ctx context.Context) string {
	if v, ok := s.cached(ctx); ok {
		return v
	}
	if s.gen == nil {
		return FallbackMascotURL
	}

	v, err, _ := s.sf.Do(store.KeyMascotImage, func() (any, error) {
		if v, ok := s.cached(ctx); ok {
			return v, nil
		}
		gctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
		img, err := s.gen.Image(gctx, mascotPrompt)
		if err != nil {
			return "", err
		}
		if len(img.Data) == 0 {
			return "", errors.New("image response without data")
		}
		mime := img.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		dataURL := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
		if err := s.cache.SetValue(ctx, store.KeyMascotImage, dataURL, source); err != nil {
			s.lg.Warn("mascot_cache_failed", err, nil)
		}
		return dataURL, nil
	})
	if err != nil {
		s.lg.ErrorCtx(ctx, "mascot_generation_failed", err, nil)
		return FallbackMascotURL
	}
	return v.(string)
}

func (s *Service) cached(ctx context.Context) (string, bool) {
	v, ok, err := s.cache.Value(ctx, store.KeyMascotImage)
	if err != nil {
		s.lg.Warn("mascot_cache_read_failed", err, nil)
		return "", false
	}
	return v, ok && v != ""
}

func systemPrompt(items []domain.MenuItem) (string, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal menu: %w", err)
	}
	return `Eres el asistente gourmet de "ORIGEN BURGER", una cocina oculta (ghost kitchen) que atiende de 10 AM a 11 PM.
Recomienda la mejor opción del menú según los gustos del cliente.

Menú disponible: ` + string(b) + `

Notas de la casa:
- La Clásica lleva chorizo artesanal y cebolla caramelizada.
- De la casa es para los amantes del crunch: cebolla krispy y tocineta.
- Edición Limitada combina maduro, queso frito y pechuga.
- Para acompañar están "Que papas", "Mr Papitas" y "Papa Box".

Reglas:
1. Sé entusiasta y sofisticado; recuerda de vez en cuando que somos una "Cocina Oculta".
2. Si preguntan por ingredientes, cíñete a las descripciones del menú.
3. Si piden acompañamiento, sugiere nuestras papas.
4. Responde en español, breve y amable.`, nil
}
