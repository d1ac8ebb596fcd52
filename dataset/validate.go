package dataset

import (
	"slices"

	"github.com/IzaacCoding36/onia/pkg/errors"
	"github.com/IzaacCoding36/onia/pkg/log"
)

// ValidationResult は学習データとテストデータの整合性チェックの結果です。
type ValidationResult struct {
	TrainFeatures int
	TestFeatures  int
	// SameFeatureNames は特徴量の列名と順序が一致するかどうか。
	// 判定には使わず、呼び出し側への情報としてのみ返す
	SameFeatureNames bool
	// Warnings は致命的でない検査結果（FeatureCountMismatchWarning）
	Warnings []error
}

// Validate は必須列の存在を確認し、特徴量の個数を比較します。
//
// 学習データには `id` と `target`、テストデータには `id` が必要で、欠けていれば
// SchemaError を返します。特徴量の個数が異なる場合は FeatureCountMismatchWarning を
// Warnings に入れて logger に WARN を1件記録しますが、エラーにはしません。
func Validate(train, test *Dataset, logger log.Logger) (*ValidationResult, error) {
	logger = log.OrNop(logger).With(log.StageKey, log.StageValidate)

	required := []struct {
		name   string
		data   *Dataset
		column string
	}{
		{"train", train, IDColumn},
		{"train", train, TargetColumn},
		{"test", test, IDColumn},
	}
	for _, r := range required {
		if !r.data.HasColumn(r.column) {
			return nil, errors.NewSchemaError(r.name, r.column, r.data.Columns)
		}
	}

	result := &ValidationResult{
		TrainFeatures:    train.NumFeatures(),
		TestFeatures:     test.NumFeatures(),
		SameFeatureNames: slices.Equal(train.FeatureNames, test.FeatureNames),
	}

	if result.TrainFeatures != result.TestFeatures {
		w := errors.NewFeatureCountMismatchWarning(result.TrainFeatures, result.TestFeatures)
		result.Warnings = append(result.Warnings, w)
		log.Warning(logger, w,
			"train_features", result.TrainFeatures,
			"test_features", result.TestFeatures,
		)
	}

	logger.Info("Datasets validated",
		log.FeaturesKey, result.TrainFeatures,
		"same_feature_names", result.SameFeatureNames,
	)
	return result, nil
}
