// Package pipeline は学習から予測ファイルの出力までの各ステージを実装します。
//
// ステージは Loader → Validator → Preparer → Trainer → Evaluator → Predictor/Writer の
// 順に一度ずつ実行され、最初の致命的なエラーで中断します。ロガーはグローバルに持たず、
// 各ステージに引数として渡します。
//
//	cfg := config.Default()
//	result, err := pipeline.Run(cfg, logger)
//	if err != nil {
//	    fmt.Println(errors.StageOf(err), err)
//	}
package pipeline
