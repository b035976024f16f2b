package utils

import (
	"os"

	"github.com/google/go-github/v56/github"
	"github.com/sirupsen/logrus"
)

func GetGithubClient() *github.Client {
	client := github.NewClient(nil)
	token := os.Getenv("GITHUB_TOKEN")
	if len(token) > 0 {
		client = client.WithAuthToken(token)
	} else {
		logrus.Warn("the GITHUB_TOKEN env variable is not set, you may encounter rate limiting issues")
	}
	return client
}
