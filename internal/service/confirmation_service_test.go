package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalizeStep(t *testing.T) {
	tests := []struct {
		raw  string
		want model.Stage
	}{
		{"teacher_confirm", model.StageTeacherConfirm},
		{"teacherConfirm", model.StageTeacherConfirm},
		{"TEACHER-CONFIRM", model.StageTeacherConfirm},
		{" Teacher Confirm ", model.StageTeacherConfirm},
		{"1st_confirm", model.StageTeacherConfirm},
		{"adminConfirm", model.StageAdminConfirm},
		{"2nd-confirm", model.StageAdminConfirm},
		{"message_sent", model.StageMessageConfirm},
		{"MessageConfirm", model.StageMessageConfirm},
		{"paid", model.StagePaymentConfirm},
		{"Payment Confirm", model.StagePaymentConfirm},
	}
	for _, tt := range tests {
		got, ok := NormalizeStep(tt.raw)
		require.True(t, ok, "NormalizeStep(%q)", tt.raw)
		assert.Equal(t, tt.want, got, "NormalizeStep(%q)", tt.raw)
	}

	if _, ok := NormalizeStep("fifth_confirm"); ok {
		t.Error("NormalizeStep accepted unknown step")
	}
}

func TestNormalizeStudentName(t *testing.T) {
	// гонорифик и регистр не должны плодить разных студентов
	assert.Equal(t, NormalizeStudentName("지윤"), NormalizeStudentName(" 지윤님 "))
	assert.Equal(t, NormalizeStudentName("Jiyoon"), NormalizeStudentName(" jiyoon "))
	assert.NotEqual(t, NormalizeStudentName("지윤"), NormalizeStudentName("지민"))
}

func TestFirstNotDone(t *testing.T) {
	set := model.StageSet{}
	stage, ok := FirstNotDone(set)
	require.True(t, ok)
	assert.Equal(t, model.StageTeacherConfirm, stage)

	set[model.StageTeacherConfirm] = true
	stage, ok = FirstNotDone(set)
	require.True(t, ok)
	assert.Equal(t, model.StageAdminConfirm, stage)

	// пропущенный этап остаётся текущим даже когда поздние уже отмечены
	set[model.StageMessageConfirm] = true
	stage, ok = FirstNotDone(set)
	require.True(t, ok)
	assert.Equal(t, model.StageAdminConfirm, stage)

	set[model.StageAdminConfirm] = true
	set[model.StagePaymentConfirm] = true
	_, ok = FirstNotDone(set)
	assert.False(t, ok)
	assert.Equal(t, 4, set.DoneCount())
}

// Свёртка документов — объединение множеств: результат не зависит от
// порядка добавления документов.
func TestFoldDocumentsOrderIndependent(t *testing.T) {
	docs := []*model.ConfirmationStatusDocument{
		{Step: "teacher_confirm", StudentNames: []string{"지윤님"}, YYYYMM: "202504"},
		{Step: "paymentConfirm", StudentNames: []string{"지윤"}, YYYYMM: "202504"},
		{Step: "admin_confirm", StudentNames: []string{" 지윤 "}, YYYYMM: "202504"},
		{Step: "message_sent", StudentNames: []string{"지윤님"}, YYYYMM: "202504"},
		{Step: "teacher_confirm", StudentNames: []string{"지윤"}, YYYYMM: "202504"}, // дубль безвреден
	}

	want := FoldDocuments(docs)
	require.Len(t, want, 1)
	assert.Equal(t, 4, want[NormalizeStudentName("지윤")].DoneCount())

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]*model.ConfirmationStatusDocument, len(docs))
		copy(shuffled, docs)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, FoldDocuments(shuffled))
	}
}

// Два написания одного студента (с гонорификом и без) сливаются
// в одну запись.
func TestFoldDocumentsMergesHonorificVariant(t *testing.T) {
	docs := []*model.ConfirmationStatusDocument{
		{Step: "teacher_confirm", StudentNames: []string{"지윤님"}},
		{Step: "teacher_confirm", StudentNames: []string{"지윤"}},
	}

	result := FoldDocuments(docs)
	require.Len(t, result, 1)
	set := result[NormalizeStudentName("지윤님")]
	assert.True(t, set[model.StageTeacherConfirm])
	assert.Equal(t, 1, set.DoneCount())
}

func TestFoldDocumentsSkipsUnknownStep(t *testing.T) {
	docs := []*model.ConfirmationStatusDocument{
		{Step: "fifth_confirm", StudentNames: []string{"mina"}},
		{Step: "teacher_confirm", StudentNames: []string{""}},
	}
	assert.Empty(t, FoldDocuments(docs))
}

func TestRecordTransitionAndDerive(t *testing.T) {
	store := &fakeConfirmationStore{}
	svc := NewConfirmationService(store, zap.NewNop())
	ctx := context.Background()

	_, err := svc.RecordTransition(ctx, []string{"mina", "juno"}, model.StageTeacherConfirm, "202504", nil)
	require.NoError(t, err)
	_, err = svc.ToggleStage(ctx, "mina", model.StageAdminConfirm, "202504")
	require.NoError(t, err)
	// документ другого месяца не участвует в выводе
	_, err = svc.RecordTransition(ctx, []string{"mina"}, model.StagePaymentConfirm, "202505", nil)
	require.NoError(t, err)

	stages, err := svc.DeriveStages(ctx, "202504")
	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, 2, stages["mina"].DoneCount())
	assert.Equal(t, 1, stages["juno"].DoneCount())

	current, ok := FirstNotDone(stages["mina"])
	require.True(t, ok)
	assert.Equal(t, model.StageMessageConfirm, current)
}

func TestRecordTransitionUnknownStage(t *testing.T) {
	svc := NewConfirmationService(&fakeConfirmationStore{}, zap.NewNop())

	_, err := svc.RecordTransition(context.Background(), []string{"mina"}, model.Stage("bogus"), "202504", nil)
	assert.ErrorIs(t, err, ErrUnknownStage)
}
