package merge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pairmerge/internal/audio"
	"pairmerge/internal/config"
	"pairmerge/internal/fileutil"
	"pairmerge/internal/logging"
	"pairmerge/internal/pairing"
)

// OutputPrefix is prepended to the first clip's filename to name the output.
const OutputPrefix = "merged_"

// Decoder turns an input file into PCM.
type Decoder interface {
	Decode(ctx context.Context, path string) (audio.Clip, error)
}

// Encoder writes PCM to dest and returns the size of the written file.
type Encoder interface {
	Encode(ctx context.Context, clip audio.Clip, dest string) (int64, error)
}

// Options configures a run. Directories must be absolute or already
// resolved by the caller.
type Options struct {
	FirstDir    string
	SecondDir   string
	OutputDir   string
	Extension   string
	Normalize   bool
	TargetDBFS  float64
	Workers     int
	FileTimeout time.Duration
	RunID       string
}

// OptionsFromConfig maps a loaded configuration onto run options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		FirstDir:    cfg.Paths.CNDir,
		SecondDir:   cfg.Paths.ENDir,
		OutputDir:   cfg.Paths.OutputDir,
		Extension:   pairing.DefaultExtension,
		Normalize:   cfg.Loudness.Enabled,
		TargetDBFS:  cfg.Loudness.TargetDBFS,
		Workers:     cfg.Run.Workers,
		FileTimeout: cfg.FileTimeout(),
	}
}

// Runner executes merge runs. It is safe to call Run more than once.
type Runner struct {
	opts    Options
	decoder Decoder
	encoder Encoder
	logger  *slog.Logger
}

// NewRunner validates opts and wires the collaborators.
func NewRunner(opts Options, decoder Decoder, encoder Encoder, logger *slog.Logger) (*Runner, error) {
	if decoder == nil || encoder == nil {
		return nil, errors.New("merge runner requires a decoder and an encoder")
	}
	if strings.TrimSpace(opts.FirstDir) == "" || strings.TrimSpace(opts.SecondDir) == "" {
		return nil, errors.New("merge runner requires both input directories")
	}
	if strings.TrimSpace(opts.OutputDir) == "" {
		return nil, errors.New("merge runner requires an output directory")
	}
	if opts.Normalize && (math.IsNaN(opts.TargetDBFS) || math.IsInf(opts.TargetDBFS, 0)) {
		return nil, fmt.Errorf("target loudness must be finite (got %v)", opts.TargetDBFS)
	}
	if opts.Extension == "" {
		opts.Extension = pairing.DefaultExtension
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Runner{
		opts:    opts,
		decoder: decoder,
		encoder: encoder,
		logger:  logging.NewComponentLogger(logger, "merge"),
	}, nil
}

// OutputPath returns where the merged clip for firstName is written.
func OutputPath(outputDir, firstName string) string {
	return filepath.Join(outputDir, OutputPrefix+firstName)
}

// Run performs one pass over the input directories. A non-nil error means
// the run could not start or was interrupted; per-pair failures are only
// reported in the Summary.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	summary := Summary{
		RunID:     r.opts.RunID,
		FirstDir:  r.opts.FirstDir,
		SecondDir: r.opts.SecondDir,
		OutputDir: r.opts.OutputDir,
		Started:   time.Now(),
	}
	if summary.RunID != "" {
		ctx = logging.WithRunID(ctx, summary.RunID)
	}

	pairs, mismatch, err := r.scan(ctx)
	if err != nil {
		return summary, err
	}
	summary.Mismatch = mismatch

	if err := fileutil.EnsureDir(r.opts.OutputDir); err != nil {
		return summary, fmt.Errorf("create output directory: %w", err)
	}
	lock, err := acquireRunLock(r.opts.OutputDir)
	if err != nil {
		return summary, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.WarnContext(ctx, "release run lock failed", logging.Error(err))
		}
	}()

	r.logger.InfoContext(ctx, "merge started",
		logging.Int("pairs", len(pairs)),
		logging.String("first_dir", r.opts.FirstDir),
		logging.String("second_dir", r.opts.SecondDir),
		logging.String("output_dir", r.opts.OutputDir),
		logging.Bool("normalize", r.opts.Normalize),
		logging.Float64("target_dbfs", r.opts.TargetDBFS),
		logging.Int("workers", r.opts.Workers),
	)

	summary.Results = make([]Result, len(pairs))
	for i, pair := range pairs {
		summary.Results[i] = Result{Pair: pair, State: StateSkipped}
	}
	r.process(ctx, pairs, summary.Results)
	summary.Elapsed = time.Since(summary.Started)

	attrs := []logging.Attr{
		logging.Int("written", summary.Written()),
		logging.Int("failed", summary.Failed()),
		logging.Int("skipped", summary.Skipped()),
		logging.Int64("bytes", summary.BytesWritten()),
		logging.Duration("elapsed", summary.Elapsed),
	}
	if err := ctx.Err(); err != nil {
		logging.WarnWithContext(ctx, r.logger, "merge interrupted", "run_interrupted",
			append(attrs,
				logging.String(logging.FieldImpact, "remaining pairs were not merged"),
				logging.String(logging.FieldErrorHint, "rerun to finish; finished outputs are overwritten atomically"),
			)...)
		return summary, err
	}
	r.logger.InfoContext(ctx, "merge finished", logging.Args(attrs...)...)
	return summary, nil
}

func (r *Runner) scan(ctx context.Context) ([]pairing.Pair, pairing.Mismatch, error) {
	for _, dir := range []string{r.opts.FirstDir, r.opts.SecondDir} {
		if err := pairing.CheckReadable(dir); err != nil {
			return nil, pairing.Mismatch{}, err
		}
	}
	first, err := pairing.ScanDir(r.opts.FirstDir, r.opts.Extension)
	if err != nil {
		return nil, pairing.Mismatch{}, fmt.Errorf("scan first directory: %w", err)
	}
	second, err := pairing.ScanDir(r.opts.SecondDir, r.opts.Extension)
	if err != nil {
		return nil, pairing.Mismatch{}, fmt.Errorf("scan second directory: %w", err)
	}

	pairs, mismatch := pairing.Zip(first, second)
	if mismatch.Truncated() {
		logging.WarnWithContext(ctx, r.logger, "input file counts differ; extra files ignored", "count_mismatch",
			logging.Int("first_count", mismatch.First),
			logging.Int("second_count", mismatch.Second),
			logging.Int("dropped", mismatch.Dropped()),
			logging.String(logging.FieldImpact, fmt.Sprintf("only the first %d pairs are merged", len(pairs))),
			logging.String(logging.FieldErrorHint, "add the missing clips or remove the extra ones"),
		)
	}
	return pairs, mismatch, nil
}

// process fills results in place. Scheduling stops as soon as ctx is done;
// pairs not yet started keep StateSkipped.
func (r *Runner) process(ctx context.Context, pairs []pairing.Pair, results []Result) {
	if r.opts.Workers <= 1 {
		for i, pair := range pairs {
			if ctx.Err() != nil {
				return
			}
			results[i] = r.processPair(ctx, pair)
		}
		return
	}

	var group errgroup.Group
	group.SetLimit(r.opts.Workers)
	for i, pair := range pairs {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			// Each goroutine owns results[i]; pair errors stay in the Result.
			results[i] = r.processPair(ctx, pair)
			return nil
		})
	}
	_ = group.Wait()
}

func (r *Runner) processPair(ctx context.Context, pair pairing.Pair) (res Result) {
	ctx = logging.WithPairIndex(ctx, pair.Index)
	started := time.Now()
	res = Result{Pair: pair, State: StatePending}

	pairCtx := ctx
	if r.opts.FileTimeout > 0 {
		var cancel context.CancelFunc
		pairCtx, cancel = context.WithTimeout(ctx, r.opts.FileTimeout)
		defer cancel()
	}

	fail := func(stage Stage, err error) Result {
		res.Elapsed = time.Since(started)
		res.Err = &StageError{
			Stage:  stage,
			Index:  pair.Index,
			First:  pair.First.Path,
			Second: pair.Second.Path,
			Err:    err,
		}
		if ctx.Err() != nil && isCancellation(err) {
			res.State = StateSkipped
			r.logger.DebugContext(ctx, "pair abandoned", logging.String(logging.FieldStage, string(stage)))
			return res
		}
		res.State = StateFailed
		logging.ErrorWithContext(ctx, r.logger, "pair failed", "pair_failed",
			logging.String(logging.FieldStage, string(stage)),
			logging.String("kind", Kind(err)),
			logging.String("first", pair.First.Path),
			logging.String("second", pair.Second.Path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hintFor(err)),
		)
		return res
	}

	// A panic in a collaborator fails this pair only.
	stage := StageDecode
	defer func() {
		if p := recover(); p != nil {
			res = fail(stage, fmt.Errorf("%w: %v", errPairPanic, p))
		}
	}()

	first, err := r.decoder.Decode(pairCtx, pair.First.Path)
	if err != nil {
		return fail(StageDecode, err)
	}
	second, err := r.decoder.Decode(pairCtx, pair.Second.Path)
	if err != nil {
		return fail(StageDecode, err)
	}
	res.State = StateLoaded

	if r.opts.Normalize {
		stage = StageNormalize
		first, res.FirstGainDB = r.normalize(ctx, &res, first, pair.First.Path)
		second, res.SecondGainDB = r.normalize(ctx, &res, second, pair.Second.Path)
		res.State = StateNormalized
	}

	stage = StageMerge
	merged, err := audio.Concat(first, second)
	if err != nil {
		return fail(StageMerge, err)
	}
	res.State = StateMerged
	res.Duration = merged.Duration()

	dest := OutputPath(r.opts.OutputDir, pair.First.Name)
	res.Output = dest
	stage = StageEncode
	size, err := r.encoder.Encode(pairCtx, merged, dest)
	if err != nil {
		return fail(StageEncode, err)
	}
	res.State = StateWritten
	res.Bytes = size
	res.Elapsed = time.Since(started)

	r.logger.InfoContext(ctx, "merged pair",
		logging.String("first", pair.First.Name),
		logging.String("second", pair.Second.Name),
		logging.String("output", dest),
		logging.Int64("bytes", size),
		logging.Duration("audio_duration", res.Duration),
	)
	return res
}

// normalize never fails the pair: an unmeasurable clip is logged and passed
// through unchanged.
func (r *Runner) normalize(ctx context.Context, res *Result, clip audio.Clip, path string) (audio.Clip, float64) {
	out, gain, err := audio.Normalize(clip, r.opts.TargetDBFS)
	if err != nil {
		res.NormalizeErrs = append(res.NormalizeErrs, fmt.Errorf("%s: %w", path, err))
		logging.ErrorWithContext(ctx, r.logger, "loudness normalization skipped", "normalize_skipped",
			logging.String(logging.FieldStage, string(StageNormalize)),
			logging.String("path", path),
			logging.Float64("loudness_dbfs", clip.DBFS()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the clip is merged at its original level"),
		)
		return clip, 0
	}
	r.logger.DebugContext(ctx, "clip normalized",
		logging.String("path", path),
		logging.Float64("gain_db", gain),
		logging.Float64("target_dbfs", r.opts.TargetDBFS),
	)
	return out, gain
}

func hintFor(err error) string {
	switch Kind(err) {
	case KindDecode:
		return "the input is not a readable MP3; re-export or replace it"
	case KindFormat:
		return "both clips must share sample rate and channel count; re-encode one to match"
	case KindEncode:
		return "check that ffmpeg supports libmp3lame and the output directory is writable"
	default:
		if isCancellation(err) {
			return "the pair exceeded run.file_timeout_seconds; raise the limit for long clips"
		}
		return "check logs for details"
	}
}
