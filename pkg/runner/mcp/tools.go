package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/session"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListWatchesTool(srv, svc)
	registerListAdsTool(srv, svc)
	registerListTagsTool(srv, svc)
	registerJobStatusTool(srv, svc)
	registerRefreshWatchTool(srv, svc)
	registerHideAdsTool(srv, svc)
	registerCompareAdsTool(srv, svc)
	registerAnalyzeTool(srv, svc)
	registerStopAnalysisTool(srv, svc)
	registerPriceHistoryTool(srv, svc)
}

func registerListWatchesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_watches",
		mcp.WithDescription("List the saved searches (watches) with their refresh settings."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ws, err := svc.ListWatches(ctx)
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(map[string]any{"watches": ws, "count": len(ws)})
	})
}

func registerListAdsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_ads",
		mcp.WithDescription("List the ads of a watch, optionally filtered by keywords and sorted."),
		mcp.WithString("watch",
			mcp.Description("Watch name. Leave empty for the ads of every watch."),
		),
		mcp.WithString("tags",
			mcp.Description("Comma separated keywords every ad must contain."),
		),
		mcp.WithString("sort",
			mcp.Description("Sort order."),
			mcp.Enum("price", "score", "date"),
		),
		mcp.WithBoolean("manual_only",
			mcp.Description("Only return manually searched ads."),
		),
		mcp.WithNumber("top",
			mcp.Description("Only return the n best scored ads."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Watch      string  `json:"watch"`
			Tags       string  `json:"tags"`
			Sort       string  `json:"sort"`
			ManualOnly bool    `json:"manual_only"`
			Top        float64 `json:"top"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		res, err := svc.ListAds(ctx, ListAdsOptions{
			Watch:      args.Watch,
			Tags:       strings.Split(args.Tags, ","),
			ManualOnly: args.ManualOnly,
			Sort:       args.Sort,
			Top:        int(args.Top),
		})
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(res)
	})
}

func registerListTagsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_tags",
		mcp.WithDescription("Most frequent keywords of a watch, usable as list_ads tags."),
		mcp.WithString("watch",
			mcp.Description("Watch name. Leave empty for every watch."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tags, err := svc.ListTags(ctx, request.GetString("watch", ""))
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(map[string]any{"tags": tags})
	})
}

func registerJobStatusTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"job_status",
		mcp.WithDescription("State of the AI analysis job: status, last message and progress."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		st := svc.JobStatus(ctx)
		payload := map[string]any{
			"status":  st.Status,
			"message": st.LastMessage,
			"running": st.Running,
		}
		if st.ShowProgress {
			payload["percent"] = st.Percent
		}
		return toJSONResult(payload)
	})
}

func registerRefreshWatchTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"refresh_watch",
		mcp.WithDescription("Re-scan a watch on the marketplaces and report gems and price drops."),
		mcp.WithString("watch",
			mcp.Required(),
			mcp.Description("Watch name."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		watch, err := request.RequireString("watch")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := svc.Refresh(ctx, watch)
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(res)
	})
}

func registerHideAdsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"hide_ads",
		mcp.WithDescription("Hide ads so they stop showing up. Partial failures are reported."),
		mcp.WithString("watch",
			mcp.Description("Watch holding the ads. Leave empty for every watch."),
		),
		mcp.WithString("ids",
			mcp.Required(),
			mcp.Description("Comma separated ad ids."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := request.RequireString("ids")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := svc.Hide(ctx, request.GetString("watch", ""), ParseIDs(raw))
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(res)
	})
}

func registerCompareAdsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"compare_ads",
		mcp.WithDescription("Ask the AI which of two or more ads is the better deal."),
		mcp.WithString("watch",
			mcp.Description("Watch holding the ads. Leave empty for every watch."),
		),
		mcp.WithString("ids",
			mcp.Required(),
			mcp.Description("Comma separated ad ids, at least two."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := request.RequireString("ids")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := svc.Compare(ctx, request.GetString("watch", ""), ParseIDs(raw))
		if err != nil {
			return toolError(err), nil
		}
		return mcp.NewToolResultText(res.Analysis), nil
	})
}

func registerAnalyzeTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"analyze",
		mcp.WithDescription("Start the AI analysis of a watch, or of some ads with a custom prompt."),
		mcp.WithString("watch",
			mcp.Description("Watch name. Leave empty for every watch."),
		),
		mcp.WithString("ids",
			mcp.Description("Comma separated ad ids. Requires prompt."),
		),
		mcp.WithString("prompt",
			mcp.Description("Custom question for the selected ads."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids := ParseIDs(request.GetString("ids", ""))
		msg, err := svc.Analyze(ctx, request.GetString("watch", ""), ids, request.GetString("prompt", ""))
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(map[string]any{"message": msg, "ads": len(ids)})
	})
}

func registerStopAnalysisTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"stop_analysis",
		mcp.WithDescription("Ask the server to stop the AI analysis job."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := svc.StopAnalysis(ctx); err != nil {
			return toolError(err), nil
		}
		return mcp.NewToolResultText("Stop requested."), nil
	})
}

func registerPriceHistoryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"price_history",
		mcp.WithDescription("Recorded price changes of an ad."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Ad identifier."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		pts, err := svc.PriceHistory(ctx, ad.ID(id))
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(map[string]any{"id": id, "history": pts})
	})
}

// toolError reports err the way the dashboard would phrase it.
func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(session.Describe(err, err.Error()))
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
