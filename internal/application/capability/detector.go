package capability

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/ports/outbound"
)

// DefaultMinLabelScore is the strict lower bound a label score must exceed.
const DefaultMinLabelScore = 0.70

// foodKeywords select localized objects by substring of the lower-cased name.
var foodKeywords = []string{"food", "fruit", "vegetable", "meat", "bread", "drink"}

// Detector enriches meal analysis with food objects and confident labels
type Detector struct {
	annotator outbound.VisionAnnotator
	minScore  float64
	timeout   time.Duration
	logger    *zap.Logger
	failures  FailureRecorder
}

// NewDetector creates a detector. A nil annotator makes it permanently unavailable.
func NewDetector(annotator outbound.VisionAnnotator, minScore float64, timeout time.Duration, logger *zap.Logger, failures FailureRecorder) *Detector {
	if minScore <= 0 {
		minScore = DefaultMinLabelScore
	}
	return &Detector{
		annotator: annotator,
		minScore:  minScore,
		timeout:   timeout,
		logger:    logger.Named("detector"),
		failures:  recorderOrNop(failures),
	}
}

// Available reports whether a backend was configured at startup
func (d *Detector) Available() bool {
	return d.annotator != nil
}

// Backend names the vision backend, empty when unavailable
func (d *Detector) Backend() string {
	if d.annotator == nil {
		return ""
	}
	return d.annotator.Name()
}

// Detect annotates a PNG image. It returns nil when unavailable or on any
// failure; a non-nil result with empty slices means nothing qualified.
func (d *Detector) Detect(ctx context.Context, png []byte) *analysis.DetectionResult {
	if d.annotator == nil {
		return nil
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	annotations, err := d.annotator.Annotate(ctx, png)
	if err != nil {
		d.logger.Warn("Object detection failed, continuing without it",
			zap.String("backend", d.annotator.Name()),
			zap.Error(err))
		d.failures.SoftFailure(NameDetector)
		return nil
	}

	result := &analysis.DetectionResult{
		Objects: []analysis.DetectedObject{},
		Labels:  []string{},
	}
	for _, obj := range annotations.Objects {
		if !isFood(obj.Name) {
			continue
		}
		result.Objects = append(result.Objects, analysis.DetectedObject{
			Name:        obj.Name,
			Confidence:  obj.Score,
			BoundingBox: obj.Vertices,
		})
	}
	for _, label := range annotations.Labels {
		if label.Score > d.minScore {
			result.Labels = append(result.Labels, label.Description)
		}
	}

	d.logger.Debug("Detection completed",
		zap.Int("objects", len(result.Objects)),
		zap.Strings("labels", result.Labels))

	return result
}

func isFood(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range foodKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
