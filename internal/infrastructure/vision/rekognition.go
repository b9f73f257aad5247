package vision

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/aws/aws-sdk-go/service/rekognition/rekognitioniface"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/ports/outbound"
)

// RekognitionClient adapts AWS Rekognition DetectLabels. Label instances
// with bounding boxes become localized objects.
type RekognitionClient struct {
	api       rekognitioniface.RekognitionAPI
	maxLabels int64
}

// NewRekognitionClient creates a client from an AWS session
func NewRekognitionClient(sess *session.Session, maxLabels int) *RekognitionClient {
	return NewRekognitionClientWithAPI(rekognition.New(sess), maxLabels)
}

// NewRekognitionClientWithAPI wraps an existing API implementation
func NewRekognitionClientWithAPI(api rekognitioniface.RekognitionAPI, maxLabels int) *RekognitionClient {
	if maxLabels <= 0 {
		maxLabels = 20
	}
	return &RekognitionClient{api: api, maxLabels: int64(maxLabels)}
}

// Name returns the backend name
func (c *RekognitionClient) Name() string {
	return "aws-rekognition"
}

// Annotate calls DetectLabels. Rekognition reports confidence in percent.
func (c *RekognitionClient) Annotate(ctx context.Context, png []byte) (*outbound.ImageAnnotations, error) {
	resp, err := c.api.DetectLabelsWithContext(ctx, &rekognition.DetectLabelsInput{
		Image:     &rekognition.Image{Bytes: png},
		MaxLabels: aws.Int64(c.maxLabels),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition detect labels failed: %w", err)
	}

	out := &outbound.ImageAnnotations{
		Objects: []outbound.ObjectAnnotation{},
		Labels:  make([]outbound.LabelAnnotation, 0, len(resp.Labels)),
	}
	for _, label := range resp.Labels {
		name := aws.StringValue(label.Name)
		out.Labels = append(out.Labels, outbound.LabelAnnotation{
			Description: name,
			Score:       aws.Float64Value(label.Confidence) / 100,
		})

		for _, inst := range label.Instances {
			if inst.BoundingBox == nil {
				continue
			}
			out.Objects = append(out.Objects, outbound.ObjectAnnotation{
				Name:     name,
				Score:    aws.Float64Value(inst.Confidence) / 100,
				Vertices: boxVertices(inst.BoundingBox),
			})
		}
	}

	return out, nil
}

// boxVertices expands a ratio box into a clockwise polygon starting top-left.
func boxVertices(box *rekognition.BoundingBox) []analysis.Vertex {
	left := aws.Float64Value(box.Left)
	top := aws.Float64Value(box.Top)
	right := left + aws.Float64Value(box.Width)
	bottom := top + aws.Float64Value(box.Height)

	return []analysis.Vertex{
		{X: left, Y: top},
		{X: right, Y: top},
		{X: right, Y: bottom},
		{X: left, Y: bottom},
	}
}
