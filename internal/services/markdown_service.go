package services

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"argshell/internal/logger"
)

// MarkdownService renders markdown, such as the type catalog, for the terminal using Glamour.
type MarkdownService struct {
	initialized bool
	renderer    *glamour.TermRenderer
	style       string
	wordWrap    int
}

// NewMarkdownService creates a new MarkdownService instance.
func NewMarkdownService() *MarkdownService {
	return &MarkdownService{
		style:    "auto",
		wordWrap: 80,
	}
}

// Name returns the service name "markdown" for registration.
func (m *MarkdownService) Name() string {
	return "markdown"
}

// Initialize sets up the MarkdownService with default configuration.
func (m *MarkdownService) Initialize() error {
	if err := m.rebuild(); err != nil {
		return err
	}
	m.initialized = true
	logger.Debug("MarkdownService initialized successfully")
	return nil
}

func (m *MarkdownService) rebuild() error {
	styleOption := glamour.WithAutoStyle()
	if m.style != "auto" {
		styleOption = glamour.WithStandardStyle(m.style)
	}
	renderer, err := glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(m.wordWrap))
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	m.renderer = renderer
	return nil
}

// Render renders markdown content to ANSI terminal output.
func (m *MarkdownService) Render(markdown string) (string, error) {
	if !m.initialized {
		return "", fmt.Errorf("markdown service not initialized")
	}
	if strings.TrimSpace(markdown) == "" {
		return "", fmt.Errorf("markdown content cannot be empty")
	}

	rendered, err := m.renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return rendered, nil
}

// SetStyle selects a Glamour style: "auto", "dark", "light", "notty" or "ascii".
func (m *MarkdownService) SetStyle(style string) error {
	if !m.initialized {
		return fmt.Errorf("markdown service not initialized")
	}
	if !containsString(m.GetAvailableStyles(), style) {
		return fmt.Errorf("unknown markdown style %q", style)
	}
	prev := m.style
	m.style = style
	if err := m.rebuild(); err != nil {
		m.style = prev
		return err
	}
	return nil
}

// SetWordWrap sets the word wrap width for markdown rendering.
func (m *MarkdownService) SetWordWrap(width int) error {
	if !m.initialized {
		return fmt.Errorf("markdown service not initialized")
	}
	if width <= 0 {
		return fmt.Errorf("word wrap width must be positive, got %d", width)
	}

	prev := m.wordWrap
	m.wordWrap = width
	if err := m.rebuild(); err != nil {
		m.wordWrap = prev
		return err
	}
	logger.Debug("MarkdownService word wrap updated", "width", width)
	return nil
}

// GetAvailableStyles returns a list of available Glamour styles.
func (m *MarkdownService) GetAvailableStyles() []string {
	return []string{
		"auto",  // Auto-detect based on terminal
		"dark",  // Dark theme
		"light", // Light theme
		"notty", // Plain text (no colors)
		"ascii", // ASCII-only styling
	}
}

func containsString(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}

// GetGlobalMarkdownService returns the markdown service from the global registry.
func GetGlobalMarkdownService() (*MarkdownService, error) {
	return getService[*MarkdownService]("markdown")
}

func init() {
	// Register the MarkdownService with the global registry
	if err := GlobalRegistry.RegisterService(NewMarkdownService()); err != nil {
		panic(fmt.Sprintf("failed to register markdown service: %v", err))
	}
}
