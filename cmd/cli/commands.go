package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(guildCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(rankingCmd)
	rootCmd.AddCommand(queuesCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/health", "")
	},
}

var guildCmd = &cobra.Command{
	Use:   "guild <guildId>",
	Short: "Show a guild",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/v1/guilds/"+url.PathEscape(args[0]), "")
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank <discordId>",
	Short: "Show a user's registered League rank",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/v1/ranks/"+url.PathEscape(args[0]), "")
	},
}

var rankingCmd = &cobra.Command{
	Use:   "ranking <guildId>",
	Short: "Show a guild's leaderboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/guild/ranking?guildId="+url.QueryEscape(args[0]), "")
	},
}

var queuesCmd = &cobra.Command{
	Use:   "queues <guildId>",
	Short: "List a guild's open queues",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/v1/guilds/"+url.PathEscape(args[0])+"/queues", "")
	},
}

var matchCmd = &cobra.Command{
	Use:   "match <guildId> <matchId>",
	Short: "Show a pending match and its votes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/v1/guilds/"+url.PathEscape(args[0])+"/matches/"+url.PathEscape(args[1]), "")
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <guildId> <discordId>",
	Short: "Show a user's match history in a guild",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/v1/guilds/"+url.PathEscape(args[0])+"/users/"+url.PathEscape(args[1])+"/history", "")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/metrics", "")
	},
}

func performRequest(method, endpoint, body string) error {
	target := host + endpoint
	fmt.Printf("Making request to %s\n", target)

	req, err := http.NewRequest(method, target, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
