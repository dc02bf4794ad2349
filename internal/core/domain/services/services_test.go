package services_test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

var (
	now    = time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	serial atomic.Int64
)

func nextCode(t *testing.T, kind kernel.CodeKind) kernel.Code {
	t.Helper()
	code, err := kernel.ParseCode(kind, fmt.Sprintf("%s-2026-%06d", kind.Prefix(), serial.Add(1)))
	require.NoError(t, err)
	return code
}

type itemSpec struct {
	grade, form, heat string
	pieces            int
}

// packageWith builds a package holding items, optionally submitted and QC-decided.
func packageWith(t *testing.T, decision packaging.QCDecision, items ...itemSpec) *packaging.Package {
	t.Helper()
	pkg, err := packaging.NewPackage(kernel.NewUUID(), nextCode(t, kernel.PackageCodeKind), "SO-9", "BIN-9", now)
	require.NoError(t, err)
	for _, s := range items {
		item, err := packaging.NewItem(kernel.NewUUID(), s.grade, s.form, s.heat, s.pieces, kernel.MustWeight("12.5"), "")
		require.NoError(t, err)
		require.NoError(t, pkg.AddItem(item, now))
	}
	if decision != "" {
		require.NoError(t, pkg.SubmitForQC(now))
		require.NoError(t, pkg.RecordQCDecision(decision, "", "qc", now))
	}
	return pkg
}

func issue(t *testing.T, pkg *packaging.Package, existing ...*droptag.DropTag) *droptag.DropTag {
	t.Helper()
	tag, _, err := services.NewTagIssuer().Issue(pkg, existing, kernel.NewUUID(), nextCode(t, kernel.DropTagCodeKind), now)
	require.NoError(t, err)
	return tag
}

func applied(t *testing.T, pkg *packaging.Package, tag *droptag.DropTag) {
	t.Helper()
	require.NoError(t, tag.ReadyToPrint(pkg, now))
	_, err := tag.Print("op", now)
	require.NoError(t, err)
	require.NoError(t, tag.Apply(pkg, "", "op", now))
}

func cascadeCodes(cascades []trace.Cascade) []string {
	out := make([]string, 0, len(cascades))
	for _, c := range cascades {
		out = append(out, c.Code+":"+c.To)
	}
	return out
}
