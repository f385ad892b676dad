package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/task-tracker/modules/api"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/tasks"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Task Tracker ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(auth.NewModule())
	app.Register(tasks.NewModule())
	app.Register(api.NewModule()) // Depends on auth and tasks modules

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/v1/users          - Register a new user")
	log.Println("  POST   /api/v1/auth/login     - Login and get tokens")
	log.Println("  POST   /api/v1/auth/refresh   - Refresh access token")
	log.Println("  GET    /health                - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/v1/tasks          - List own tasks (title, status, sortBy, order, limit, offset)")
	log.Println("  POST   /api/v1/tasks          - Create a task")
	log.Println("  GET    /api/v1/tasks/:id      - Retrieve a task")
	log.Println("  PUT    /api/v1/tasks/:id      - Update a task")
	log.Println("  PATCH  /api/v1/tasks/:id      - Partially update a task")
	log.Println("  DELETE /api/v1/tasks/:id      - Delete a task")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
