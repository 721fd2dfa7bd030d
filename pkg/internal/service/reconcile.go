package service

import (
	"context"
	"regexp"
	"strings"
	"sync"

	minio "github.com/minio/minio-go/v7"
	"golang.org/x/sync/errgroup"

	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
	nlog "github.com/greenparkpeyzaj/greenpark/pkg/log"
	"github.com/greenparkpeyzaj/greenpark/pkg/metrics"
)

// urlSource 保存对象地址的一列. text 为 true 时列是正文，其中的全部链接都算引用.
type urlSource struct {
	model  any
	column string
	text   bool
}

// embeddedURL 正文中的 http(s) 链接，止于空白、引号、尖括号与圆括号.
var embeddedURL = regexp.MustCompile(`https?://[^\s"'<>()]+`)

// referenceSources 可能引用 bucket 对象的全部列.
var referenceSources = []urlSource{
	{&model.Image{}, "url", false},
	{&model.GalleryImage{}, "url", false},
	{&model.Service{}, "image", false},
	{&model.Reference{}, "logo", false},
	{&model.ServiceArea{}, "image", false},
	{&model.User{}, "avatar", false},
	{&model.Post{}, "content", true},
	{&model.Post{}, "description", true},
}

// ReconcileService 找出没有任何记录引用的对象.
type ReconcileService struct{ Deps }

func NewReconcileService(d Deps) *ReconcileService { return &ReconcileService{d} }

// Run 执行一次对账. 保护期内的对象与仍有预留的对象不计为孤儿；
// 开启 jobs.reconcile.delete 时尽力删除孤儿.
func (s *ReconcileService) Run(ctx context.Context) (*types.ReconcileReport, error) {
	cfg := s.config().Jobs.Reconcile
	report := &types.ReconcileReport{StartedAt: s.now(), Orphans: []string{}}

	referenced, err := s.referencedKeys(ctx)
	if err != nil {
		return nil, err
	}

	reserved, err := NewUploadService(s.Deps).Reservations(ctx)
	if err != nil {
		nlog.Logger().Warn().Err(err).Msg("read upload reservations failed")

		reserved = map[string]types.Reservation{}
	}

	cutoff := report.StartedAt.Add(-cfg.Grace)

	for obj := range s.S3.ListObjects(ctx, s.S3.Bucket(), minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, errs.Storage(i18n.MsgStorageFailure, obj.Err)
		}

		report.Scanned++

		switch {
		case referenced[obj.Key]:
			report.Referenced++
		case hasReservation(reserved, obj.Key):
			report.Reserved++
		case obj.LastModified.After(cutoff):
			report.TooYoung++
		default:
			report.Orphans = append(report.Orphans, obj.Key)
		}
	}

	if cfg.Delete {
		for _, key := range report.Orphans {
			if removeObject(ctx, s.S3, key) {
				report.Deleted++
			} else {
				report.DeleteFails++
			}
		}
	}

	metrics.OrphanObjects.Set(float64(len(report.Orphans) - report.Deleted))

	report.FinishedAt = s.now()

	nlog.Logger().Info().
		Int("scanned", report.Scanned).
		Int("referenced", report.Referenced).
		Int("reserved", report.Reserved).
		Int("too_young", report.TooYoung).
		Int("orphans", len(report.Orphans)).
		Int("deleted", report.Deleted).
		Dur("took", report.FinishedAt.Sub(report.StartedAt)).
		Msg("reconcile finished")

	return report, nil
}

func hasReservation(reserved map[string]types.Reservation, key string) bool {
	_, ok := reserved[key]

	return ok
}

// referencedKeys 并发读取每个来源列，收集属于本 bucket 的对象键.
func (s *ReconcileService) referencedKeys(ctx context.Context) (map[string]bool, error) {
	var (
		mu   sync.Mutex
		keys = map[string]bool{}
	)

	g, gctx := errgroup.WithContext(ctx)

	for _, src := range referenceSources {
		g.Go(func() error {
			var urls []*string
			if err := s.db(gctx).Model(src.model).Where(src.column+" IS NOT NULL").Pluck(src.column, &urls).Error; err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()

			for _, u := range urls {
				if u == nil {
					continue
				}

				candidates := []string{*u}
				if src.text {
					candidates = embeddedURL.FindAllString(*u, -1)
				}

				for _, c := range candidates {
					if key, ok := s.S3.KeyFromURL(strings.TrimRight(c, ".,;:!?")); ok {
						keys[key] = true
					}
				}
			}

			return nil
		})
	}

	// 图片记录的 filename 即对象键
	g.Go(func() error {
		var names []string
		if err := s.db(gctx).Model(&model.Image{}).Pluck("filename", &names).Error; err != nil {
			return err
		}

		mu.Lock()
		defer mu.Unlock()

		for _, n := range names {
			keys[n] = true
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, errs.Internal(err)
	}

	return keys, nil
}

// RunWithTimeout 按 jobs.reconcile.timeout 限制一次对账的时长.
func (s *ReconcileService) RunWithTimeout(ctx context.Context) (*types.ReconcileReport, error) {
	if t := s.config().Jobs.Reconcile.Timeout; t > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	return s.Run(ctx)
}
