package events

import (
	"context"
	"time"
)

// Topic identifica um tipo de evento
type Topic string

// Event é a mensagem publicada no barramento
type Event struct {
	Topic      Topic
	TenantID   string
	EntityID   string
	OccurredAt time.Time
	Payload    map[string]string
}

// Handler processa um evento publicado
type Handler func(ctx context.Context, event Event) error

// Subscription associa um handler a um tópico
type Subscription struct {
	Topic   Topic
	Handler Handler
}

// ErrorHandler recebe os erros retornados pelos handlers
type ErrorHandler func(event Event, err error)

// Bus é um barramento de eventos síncrono em processo.
// A tabela de handlers é montada uma única vez na construção e não muda depois.
type Bus struct {
	handlers map[Topic][]Handler
	onError  ErrorHandler
}

// NewBus cria o barramento com as inscrições registradas na inicialização
func NewBus(onError ErrorHandler, subscriptions ...Subscription) *Bus {
	handlers := make(map[Topic][]Handler, len(subscriptions))
	for _, s := range subscriptions {
		if s.Handler == nil {
			continue
		}
		handlers[s.Topic] = append(handlers[s.Topic], s.Handler)
	}
	return &Bus{handlers: handlers, onError: onError}
}

// Publish entrega o evento a todos os handlers do tópico, na ordem de registro.
// A falha de um handler não interrompe os demais.
func (b *Bus) Publish(ctx context.Context, event Event) {
	if b == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	for _, h := range b.handlers[event.Topic] {
		if err := h(ctx, event); err != nil && b.onError != nil {
			b.onError(event, err)
		}
	}
}

// HasSubscribers informa se existe algum handler para o tópico
func (b *Bus) HasSubscribers(topic Topic) bool {
	if b == nil {
		return false
	}
	return len(b.handlers[topic]) > 0
}
