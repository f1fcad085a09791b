package tracking

import (
	"log/slog"
	"time"

	"github.com/askiada/go-fasttrack/pkg/pipeline/model"
)

// logOption reports the composition of a step at debug level.
type logOption struct {
	logger *slog.Logger
	def    Definition
	start  time.Time
}

func newLogOption(logger *slog.Logger, def Definition) *logOption {
	return &logOption{
		logger: logger.With(slog.String("step", def.Step), slog.String("variant", string(def.Variant))),
		def:    def,
	}
}

func (l *logOption) New() error {
	l.start = time.Now()
	l.logger.Debug("composing step")

	return nil
}

func (l *logOption) PrepareStage(parent, stage *model.StageInfo) error {
	l.logger.Debug("stage", slog.String("name", stage.Name), slog.String("after", parent.Name))

	return nil
}

func (l *logOption) PrepareParallel(parent *model.StageInfo, branches []*model.StageInfo) error {
	names := make([]string, len(branches))
	for i, b := range branches {
		names[i] = b.Name
	}
	l.logger.Debug("parallel stages", slog.Any("names", names), slog.String("after", parent.Name))

	return nil
}

func (l *logOption) PrepareMerger(parents []*model.StageInfo, stage *model.StageInfo) error {
	l.logger.Debug("merger", slog.String("name", stage.Name), slog.Int("inputs", len(parents)))

	return nil
}

func (l *logOption) PrepareSink(parent, stage *model.StageInfo) error {
	l.logger.Debug("sink", slog.String("name", stage.Name), slog.String("after", parent.Name))

	return nil
}

func (l *logOption) OnStageBuilt(stage *model.StageInfo, buildDuration time.Duration) error {
	l.logger.Debug("stage built",
		slog.String("name", stage.Name),
		slog.String("role", stage.Role),
		slog.Int("overrides", stage.Overrides),
		slog.Int("parameters", stage.Parameters),
		slog.Duration("took", buildDuration),
	)

	return nil
}

func (l *logOption) Finish() error {
	l.logger.Debug("step composed", slog.Duration("took", time.Since(l.start)))

	return nil
}

var _ model.SequenceOption = (*logOption)(nil)
