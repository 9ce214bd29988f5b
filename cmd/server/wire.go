//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"donation_hub/internal/app"
	"donation_hub/internal/bus"
	"donation_hub/internal/config"
	"donation_hub/internal/http"
	"donation_hub/internal/http/controller"
	"donation_hub/internal/logging"
	"donation_hub/internal/metrics"
	"donation_hub/internal/queue/rabbitmq"
	"donation_hub/internal/service/chat"
	"donation_hub/internal/service/comment"
	"donation_hub/internal/service/notify"
	"donation_hub/internal/store"
)

func InitializeApp() (*app.App, error) {
	wire.Build(
		config.New,
		logging.New,
		metrics.New,
		store.NewStore,
		store.Notifications,
		store.Chat,
		store.Comments,
		bus.NewHub,
		notify.NewService,
		chat.NewService,
		comment.NewService,
		controller.NewHandler,
		http.NewRouter,
		rabbitmq.NewConsumer,
		rabbitmq.NewPublisher,
		app.NewApp,
	)
	return &app.App{}, nil
}
