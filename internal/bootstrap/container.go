package bootstrap

import (
	"cloudnotes-be/internal/config"
	"cloudnotes-be/internal/controller"
	"cloudnotes-be/internal/pkg/logger"
	"cloudnotes-be/internal/pkg/serverutils"
	"cloudnotes-be/internal/service"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	NoteController controller.INoteController
	FileController controller.IFileController

	IdentityResolver *serverutils.IdentityResolver
	Logger           logger.ILogger

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	pubSub *gochannel.GoChannel
}

func NewContainer(cfg *config.Config, infra *Infrastructure, sysLogger logger.ILogger) *Container {
	// 1. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)

	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub)

	var forwarder service.EventForwarder
	if infra.Forwarder != nil {
		forwarder = infra.Forwarder
	}
	consumerService := service.NewConsumerService(pubSub, cfg.Events.Topic, forwarder, sysLogger)

	// 2. Services
	noteService := service.NewNoteService(infra.NoteRepository, publisherService, sysLogger)
	fileService := service.NewFileService(infra.Presigner, publisherService, sysLogger)

	// 3. Controllers
	return &Container{
		NoteController:   controller.NewNoteController(noteService),
		FileController:   controller.NewFileController(fileService),
		IdentityResolver: serverutils.NewIdentityResolver(cfg.Auth, sysLogger),
		Logger:           sysLogger,
		ConsumerService:  consumerService,
		pubSub:           pubSub,
	}
}

func (c *Container) Close() error {
	return c.pubSub.Close()
}
