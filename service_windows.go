//go:build windows

// Windows service support via github.com/kardianos/service. The service
// wrapper reuses the normal application lifecycle: Start launches runApp
// in a goroutine, Stop drives the same shutdown manager the signal
// handler would.
package main

import (
	"fmt"
	"time"

	"github.com/kardianos/service"

	"ricedoctor/core"
)

// program implements service.Interface.
type program struct {
	exit chan struct{}
}

// Start launches the application in a goroutine and returns immediately,
// as the service control manager requires.
func (p *program) Start(s service.Service) error {
	p.exit = make(chan struct{})
	go func() {
		defer close(p.exit)
		runApp()
	}()
	return nil
}

// Stop triggers graceful shutdown and waits for the application to
// drain, bounded by the service control manager's patience.
func (p *program) Stop(s service.Service) error {
	if mgr := activeManager.Load(); mgr != nil {
		mgr.Shutdown(core.ExitCodeSIGTERM)
	}

	select {
	case <-p.exit:
		return nil
	case <-time.After(45 * time.Second):
		return fmt.Errorf("timeout waiting for service to stop")
	}
}

func serviceConfig() *service.Config {
	return &service.Config{
		Name:        "RiceDoctor",
		DisplayName: "RiceDoctor Diagnosis Service",
		Description: "Rice leaf disease diagnosis API backed by an ONNX image classifier",
		Option: service.KeyValue{
			"StartType": "automatic",
		},
	}
}

func newService() (service.Service, error) {
	return service.New(&program{}, serviceConfig())
}

// RunAsService runs the application under the Windows service control
// manager. Returns false when launched interactively so main falls back
// to foreground mode.
func RunAsService() (bool, error) {
	s, err := newService()
	if err != nil {
		return false, fmt.Errorf("failed to create service: %w", err)
	}

	if service.Interactive() {
		return false, nil
	}

	if err := s.Run(); err != nil {
		return true, fmt.Errorf("service run failed: %w", err)
	}
	return true, nil
}

// HandleServiceCommand executes install/uninstall/start/stop/restart
// subcommands. Returns true when a command was handled.
func HandleServiceCommand(args []string) bool {
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "install", "uninstall", "start", "stop", "restart":
	default:
		return false
	}

	s, err := newService()
	if err != nil {
		fmt.Printf("failed to create service: %v\n", err)
		return true
	}

	if err := service.Control(s, args[0]); err != nil {
		fmt.Printf("service %s failed: %v\n", args[0], err)
		return true
	}
	fmt.Printf("service %s completed\n", args[0])
	return true
}
