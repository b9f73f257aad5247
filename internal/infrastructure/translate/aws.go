package translate

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	awstranslate "github.com/aws/aws-sdk-go/service/translate"
	"github.com/aws/aws-sdk-go/service/translate/translateiface"
)

// AWSClient adapts Amazon Translate
type AWSClient struct {
	api translateiface.TranslateAPI
}

// NewAWSClient creates a client from an AWS session
func NewAWSClient(sess *session.Session) *AWSClient {
	return &AWSClient{api: awstranslate.New(sess)}
}

// NewAWSClientWithAPI wraps an existing API implementation
func NewAWSClientWithAPI(api translateiface.TranslateAPI) *AWSClient {
	return &AWSClient{api: api}
}

// Name returns the backend name
func (c *AWSClient) Name() string {
	return "aws-translate"
}

// Translate translates from auto-detected source into target
func (c *AWSClient) Translate(ctx context.Context, text, target string) (string, error) {
	out, err := c.api.TextWithContext(ctx, &awstranslate.TextInput{
		Text:               aws.String(text),
		SourceLanguageCode: aws.String("auto"),
		TargetLanguageCode: aws.String(target),
	})
	if err != nil {
		return "", fmt.Errorf("aws translate failed: %w", err)
	}
	return aws.StringValue(out.TranslatedText), nil
}
