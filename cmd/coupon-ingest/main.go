// Command coupon-ingest imports bulk promo code dumps into the coupons table.
// Marketing drops arrive as gzip-compressed files with one code per line,
// often tens of millions of lines with heavy duplication across files. The
// importer streams every file concurrently, dedupes codes with a bloom filter
// so the candidate set stays in bounds, and upserts the survivors with a
// shared discount rule.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/eclora/eclora-api/internal/domain/coupon"
	"github.com/eclora/eclora-api/internal/repository"
)

const (
	bloomCapacity = 50_000_000
	bloomFPR      = 0.001
	progressEvery = 5_000_000
	minCodeLen    = 6
	maxCodeLen    = 12
	batchSize     = 1000
)

func main() {
	var (
		dataDir       string
		databaseURL   string
		discountType  string
		discountValue string
		minPurchase   string
		validDays     int
		usageLimit    int
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.gz code dump files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&discountType, "discount-type", "percentage", "discount type for imported codes (percentage or fixed)")
	flag.StringVar(&discountValue, "discount-value", "10", "discount value for imported codes")
	flag.StringVar(&minPurchase, "min-purchase", "0", "minimum purchase for imported codes")
	flag.IntVar(&validDays, "valid-days", 90, "days until imported codes expire")
	flag.IntVar(&usageLimit, "usage-limit", 1, "usage limit per imported code")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if !coupon.ValidDiscountType(coupon.DiscountType(discountType)) {
		slog.Error("discount type must be percentage or fixed", slog.String("got", discountType))
		os.Exit(1)
	}

	rule, err := parseRule(discountType, discountValue, minPurchase, validDays, usageLimit)
	if err != nil {
		slog.Error("invalid discount rule", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL, rule); err != nil {
		slog.Error("coupon ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("coupon ingest completed successfully")
}

// importRule is the discount applied to every imported code.
type importRule struct {
	discountType  coupon.DiscountType
	discountValue decimal.Decimal
	minPurchase   decimal.Decimal
	expiryDate    time.Time
	usageLimit    int
}

func parseRule(discountType, discountValue, minPurchase string, validDays, usageLimit int) (importRule, error) {
	value, err := decimal.NewFromString(discountValue)
	if err != nil {
		return importRule{}, errors.Wrap(err, "parse discount value")
	}
	minimum, err := decimal.NewFromString(minPurchase)
	if err != nil {
		return importRule{}, errors.Wrap(err, "parse min purchase")
	}
	if value.IsNegative() || minimum.IsNegative() {
		return importRule{}, errors.New("discount value and min purchase must not be negative")
	}
	if usageLimit < 1 {
		return importRule{}, errors.New("usage limit must be at least 1")
	}
	return importRule{
		discountType:  coupon.DiscountType(discountType),
		discountValue: value,
		minPurchase:   minimum,
		expiryDate:    time.Now().AddDate(0, 0, validDays),
		usageLimit:    usageLimit,
	}, nil
}

func run(ctx context.Context, dataDir, databaseURL string, rule importRule) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.gz"))
	if err != nil {
		return errors.Wrap(err, "list dump files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.gz files found in %s", dataDir)
	}

	slog.Info("collecting codes", slog.Int("files", len(files)))

	codes, err := collectCodes(ctx, files)
	if err != nil {
		return errors.Wrap(err, "collect codes")
	}

	slog.Info("unique codes found", slog.Int("count", len(codes)))

	if len(codes) == 0 {
		slog.Info("no codes to insert")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := writeCoupons(ctx, pool, codes, rule); err != nil {
		return errors.Wrap(err, "write coupons to database")
	}

	return nil
}

// collectCodes streams every dump file concurrently and returns the
// deduplicated set of well-formed codes. A shared bloom filter rejects
// repeats cheaply; the exact set behind it keeps false positives from
// dropping real codes.
func collectCodes(ctx context.Context, files []string) ([]string, error) {
	var (
		mu     sync.Mutex
		filter = bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		seen   = make(map[string]struct{})
		codes  []string
	)

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			var count uint64
			err := streamGzFile(ctx, path, func(line string) {
				code := strings.ToUpper(strings.TrimSpace(line))
				if len(code) < minCodeLen || len(code) > maxCodeLen {
					return
				}

				count++
				if count%progressEvery == 0 {
					slog.Info("scan progress",
						slog.Int("file", i+1),
						slog.Uint64("lines", count),
					)
				}

				mu.Lock()
				if !filter.TestAndAddString(code) {
					codes = append(codes, code)
					seen[code] = struct{}{}
				} else if _, ok := seen[code]; !ok {
					// Bloom false positive: the filter claims we saw the
					// code but the exact set disagrees.
					codes = append(codes, code)
					seen[code] = struct{}{}
				}
				mu.Unlock()
			})
			if err != nil {
				return errors.Wrapf(err, "scan file %d", i+1)
			}

			slog.Info("scan complete", slog.Int("file", i+1), slog.Uint64("lines", count))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return codes, nil
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

const upsertCouponSQL = `INSERT INTO coupons
	(id, code, discount_type, discount_value, min_purchase, expiry_date, usage_limit, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, true)
	ON CONFLICT (code) DO NOTHING`

// writeCoupons inserts every code with the shared rule, skipping codes that
// already exist so re-running an import never resets usage counters.
func writeCoupons(ctx context.Context, pool *pgxpool.Pool, codes []string, rule importRule) error {
	slog.Info("writing coupons to database", slog.Int("count", len(codes)))

	for i, code := range codes {
		_, err := pool.Exec(ctx, upsertCouponSQL,
			uuid.NewString(), code, rule.discountType, rule.discountValue,
			rule.minPurchase, rule.expiryDate, rule.usageLimit)
		if err != nil {
			return errors.Wrapf(err, "insert coupon %s", code)
		}

		if (i+1)%batchSize == 0 || i+1 == len(codes) {
			slog.Info("write progress", slog.Int("written", i+1), slog.Int("total", len(codes)))
		}
	}

	return nil
}
