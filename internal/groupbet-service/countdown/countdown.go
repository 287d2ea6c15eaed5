// Package countdown deriva o estado de contagem regressiva de uma aposta
// a partir do relógio. É função pura de (expiresAt, now): nada é armazenado
// e nenhum evento de expiração é empurrado; quem exibe deve reamostrar
// pelo menos uma vez por segundo.
package countdown

import (
	"fmt"
	"time"
)

// Urgency é a faixa discreta de tempo restante usada pela UI
type Urgency string

const (
	UrgencyGreen  Urgency = "green"  // >= 30min
	UrgencyYellow Urgency = "yellow" // 10-30min
	UrgencyRed    Urgency = "red"    // < 10min
)

const (
	redThreshold    = 10 * time.Minute
	yellowThreshold = 30 * time.Minute

	// TotalDuration é a janela padrão de uma aposta em grupo
	TotalDuration = time.Hour
)

// State é o snapshot derivado mostrado pela UI
type State struct {
	Hours        int     `json:"hours"`
	Minutes      int     `json:"minutes"`
	Seconds      int     `json:"seconds"`
	TotalSeconds int     `json:"totalSeconds"`
	IsExpired    bool    `json:"isExpired"`
	Progress     float64 `json:"progress"` // 1 = tempo cheio, 0 = expirada
	Urgency      Urgency `json:"urgency"`
	Formatted    string  `json:"formatted"`
}

// Remaining calcula o estado para uma janela com a duração informada
func Remaining(expiresAt, now time.Time, total time.Duration) State {
	diff := expiresAt.Sub(now)
	if diff < 0 {
		diff = 0
	}
	isExpired := diff <= 0

	totalSeconds := int(diff / time.Second)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	progress := float64(diff) / float64(total)
	if progress > 1 {
		progress = 1
	}

	urgency := UrgencyGreen
	switch {
	case diff < redThreshold:
		urgency = UrgencyRed
	case diff < yellowThreshold:
		urgency = UrgencyYellow
	}

	var formatted string
	switch {
	case isExpired:
		formatted = "Expired"
	case hours > 0:
		formatted = fmt.Sprintf("%dh %dm %02ds", hours, minutes, seconds)
	default:
		formatted = fmt.Sprintf("%dm %02ds", minutes, seconds)
	}

	return State{
		Hours:        hours,
		Minutes:      minutes,
		Seconds:      seconds,
		TotalSeconds: totalSeconds,
		IsExpired:    isExpired,
		Progress:     progress,
		Urgency:      urgency,
		Formatted:    formatted,
	}
}

// ForBet usa a janela padrão de 1 hora
func ForBet(expiresAt, now time.Time) State {
	return Remaining(expiresAt, now, TotalDuration)
}
