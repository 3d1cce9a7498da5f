// Package publish ships best-solution events to external sinks.
//
// KVPublisher stores the latest best solution of every solver run in a NATS
// JetStream KeyValue bucket under the key "<prefix>.<runID>". Intermediate
// improvements are rate limited; phase-end events always go through so the
// bucket reflects the final best score of each phase.
//
// Wire it to a solver through hooks:
//
//	pub, err := publish.NewKVPublisher(ctx, nc, publish.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	solver, err := solvo.NewSolver(cfg, director, phases,
//	    solvo.WithHooks(&types.Hooks{OnBestSolutionChanged: pub.Publish}))
//
// Heartbeat writes a Status snapshot of one solver to a KV key at a fixed
// interval, so dashboards can follow long-running solves and notice crashed
// processes through the bucket TTL.
package publish
