package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerWatchesResource(srv, svc)
	registerWatchAdsTemplate(srv, svc)
}

func registerWatchesResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"lbcwatch://watches",
		"Watches",
		mcp.WithResourceDescription("Saved searches with their refresh settings and last run."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ws, err := svc.ListWatches(ctx)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"watches": ws,
			"count":   len(ws),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerWatchAdsTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"lbcwatch://watches/{name}/ads",
		"Watch Ads",
		mcp.WithTemplateDescription("Ads of a watch, newest first."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name, _ := request.Params.Arguments["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("watch name is required")
		}
		res, err := svc.ListAds(ctx, ListAdsOptions{Watch: name})
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, res)
	})
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
