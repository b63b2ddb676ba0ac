package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/docai/docai/web"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	settings := deps.Settings.Settings()

	host := c.Host
	if host == "" {
		host = settings.WebHost
	}
	port := c.Port
	if port == 0 {
		port = settings.WebPort
	}

	server := &web.Server{
		Sources: deps.Sources,
		Search:  deps.Search,
		Asker:   deps.Asker,
		Logger:  deps.Logger,
		Addr:    net.JoinHostPort(host, strconv.Itoa(port)),
	}

	fmt.Fprintf(deps.Stdout, "Serving on http://%s\n", server.Addr)

	if err := server.ListenAndServe(deps.Ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}
