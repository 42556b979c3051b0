package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"btocore/internal/application"
	"btocore/internal/assignment"
	"btocore/internal/audit"
	"btocore/internal/booking"
	"btocore/internal/enquiry"
	"btocore/internal/party"
	"btocore/internal/platform/config"
	"btocore/internal/platform/logger"
	"btocore/internal/platform/metrics"
	"btocore/internal/project"
	"btocore/internal/snapshot"
)

// main wires stores and lifecycle services, replays the interchange CSVs
// from the data directory, and writes the normalized snapshot back out.
// Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	m := metrics.New(prometheus.DefaultRegisterer)

	personStore := party.NewInMemory()
	projectStore := project.NewInMemory()
	appStore := application.NewInMemory()
	regStore := assignment.NewInMemory()
	bookingStore := booking.NewInMemory()
	enquiryStore := enquiry.NewInMemory()
	auditStore := audit.NewInMemoryStore()
	auditPub := audit.NewPublisher(auditStore)

	alloc := project.NewAllocation(projectStore, appStore)

	apps := application.NewService(appStore, personStore, projectStore, alloc,
		application.WithLogger(log),
		application.WithAuditPublisher(auditPub),
		application.WithMetrics(m),
		application.WithRegistrationChecker(regStore),
	)
	bookings := booking.NewService(bookingStore, apps, projectStore, personStore, alloc,
		booking.WithLogger(log),
		booking.WithAuditPublisher(auditPub),
		booking.WithMetrics(m),
	)
	// Approved withdrawals of booked applications cancel through the booking
	// service; the port is bound late to keep construction acyclic.
	apps.BindBookingCanceller(bookings)

	ctx := context.Background()

	loader := snapshot.NewLoader(personStore, projectStore, appStore, regStore, bookingStore, enquiryStore,
		snapshot.WithLoaderLogger(log),
		snapshot.WithLoaderMetrics(m),
	)
	src, closeSrc, err := openSource(cfg.DataDir)
	if err != nil {
		log.Error("failed to open data directory", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	sum, err := loader.Load(ctx, src)
	closeSrc()
	if err != nil {
		log.Error("snapshot load failed", "error", err)
		os.Exit(1)
	}
	for entity, n := range sum.Loaded {
		log.Info("snapshot loaded", "entity", entity, "rows", n)
	}
	for entity, n := range sum.Rejected {
		log.Warn("snapshot rows rejected", "entity", entity, "rows", n)
	}

	saver := snapshot.NewSaver(personStore, projectStore, appStore, regStore, bookingStore, enquiryStore)
	sink, closeSink, err := openSink(cfg.DataDir)
	if err != nil {
		log.Error("failed to open output files", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	if err := saver.SaveAll(ctx, sink); err != nil {
		closeSink()
		log.Error("snapshot save failed", "error", err)
		os.Exit(1)
	}
	if err := closeSink(); err != nil {
		log.Error("failed to close output files", "error", err)
		os.Exit(1)
	}
	log.Info("snapshot normalized", "dir", cfg.DataDir)

	rows, err := bookings.Report(ctx, booking.ReportFilter{})
	if err != nil {
		log.Error("booking report failed", "error", err)
		os.Exit(1)
	}
	log.Info("booking report", "live_bookings", len(rows))
}

// openSource opens each interchange file that exists. Missing files stay nil
// and are skipped by the loader.
func openSource(dir string) (snapshot.Source, func(), error) {
	var closers []io.Closer
	open := func(name string) (io.Reader, error) {
		f, err := os.Open(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		closers = append(closers, f)
		return f, nil
	}
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	var src snapshot.Source
	var err error
	if src.Applicants, err = open(snapshot.FileApplicants); err != nil {
		closeAll()
		return snapshot.Source{}, nil, err
	}
	if src.Officers, err = open(snapshot.FileOfficers); err != nil {
		closeAll()
		return snapshot.Source{}, nil, err
	}
	if src.Managers, err = open(snapshot.FileManagers); err != nil {
		closeAll()
		return snapshot.Source{}, nil, err
	}
	if src.Projects, err = open(snapshot.FileProjects); err != nil {
		closeAll()
		return snapshot.Source{}, nil, err
	}
	if src.Applications, err = open(snapshot.FileApplications); err != nil {
		closeAll()
		return snapshot.Source{}, nil, err
	}
	if src.Registrations, err = open(snapshot.FileRegistrations); err != nil {
		closeAll()
		return snapshot.Source{}, nil, err
	}
	if src.Bookings, err = open(snapshot.FileBookings); err != nil {
		closeAll()
		return snapshot.Source{}, nil, err
	}
	if src.Receipts, err = open(snapshot.FileReceipts); err != nil {
		closeAll()
		return snapshot.Source{}, nil, err
	}
	if src.Enquiries, err = open(snapshot.FileEnquiries); err != nil {
		closeAll()
		return snapshot.Source{}, nil, err
	}
	return src, closeAll, nil
}

// openSink creates every interchange file for writing.
func openSink(dir string) (snapshot.Sink, func() error, error) {
	var files []*os.File
	create := func(name string) (io.Writer, error) {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
		return f, nil
	}
	closeAll := func() error {
		var first error
		for _, f := range files {
			if err := f.Close(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	var sink snapshot.Sink
	var err error
	if sink.Applicants, err = create(snapshot.FileApplicants); err != nil {
		_ = closeAll()
		return snapshot.Sink{}, nil, err
	}
	if sink.Officers, err = create(snapshot.FileOfficers); err != nil {
		_ = closeAll()
		return snapshot.Sink{}, nil, err
	}
	if sink.Managers, err = create(snapshot.FileManagers); err != nil {
		_ = closeAll()
		return snapshot.Sink{}, nil, err
	}
	if sink.Projects, err = create(snapshot.FileProjects); err != nil {
		_ = closeAll()
		return snapshot.Sink{}, nil, err
	}
	if sink.Applications, err = create(snapshot.FileApplications); err != nil {
		_ = closeAll()
		return snapshot.Sink{}, nil, err
	}
	if sink.Registrations, err = create(snapshot.FileRegistrations); err != nil {
		_ = closeAll()
		return snapshot.Sink{}, nil, err
	}
	if sink.Bookings, err = create(snapshot.FileBookings); err != nil {
		_ = closeAll()
		return snapshot.Sink{}, nil, err
	}
	if sink.Receipts, err = create(snapshot.FileReceipts); err != nil {
		_ = closeAll()
		return snapshot.Sink{}, nil, err
	}
	if sink.Enquiries, err = create(snapshot.FileEnquiries); err != nil {
		_ = closeAll()
		return snapshot.Sink{}, nil, err
	}
	return sink, closeAll, nil
}
