package controllers

import (
	"os"
	"sync"

	"association-portal-api/config"
	"association-portal-api/services"
)

// Shared singletons. The feed must be process-wide so every SSE subscriber
// sees every toggle; the gateway and blob store carry connection state worth
// reusing. Services themselves are cheap and built per request around
// config.DB.
var (
	depsOnce sync.Once

	regFeed *services.RegistrationFeed
	gateway services.SMSGateway
	store   services.BlobStore
)

func initDeps() {
	depsOnce.Do(func() {
		regFeed = services.NewRegistrationFeed()
		gateway = services.NewKavenegarGateway()
		store = services.NewDiskStore(os.Getenv("UPLOAD_PATH"))
	})
}

func submissionService() *services.SubmissionService {
	return services.NewSubmissionService(config.DB, sharedNotifier())
}

func registrationService() *services.RegistrationService {
	initDeps()
	return services.NewRegistrationService(config.DB, regFeed)
}

func fileService() *services.FileService {
	initDeps()
	return services.NewFileService(config.DB, store, sharedNotifier())
}

func sharedNotifier() *services.Notifier {
	initDeps()
	return services.NewNotifier(config.DB, gateway)
}

func registrationFeed() *services.RegistrationFeed {
	initDeps()
	return regFeed
}
