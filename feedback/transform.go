package feedback

import (
	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/model"
)

// applyTransform turns a freshly sampled value x into the value that
// becomes the loop's new current_value, per spec §4.8's transform
// table. evalCtx is only consulted by the "custom" transform, which
// evaluates loop.CustomExpr with x exposed as $params.feedbackValue;
// no standalone $feedbackValue variable is bound.
func applyTransform(loop *model.FeedbackLoop, state *model.FeedbackState, x float64, evalCtx *expr.ExpressionContext) (float64, error) {
	switch loop.Transform {
	case model.TransformDirect:
		return x, nil

	case model.TransformDelta:
		if len(state.History) == 0 {
			return 0, nil
		}
		prev := state.History[len(state.History)-1].Value
		return x - prev, nil

	case model.TransformMovingAvg:
		window := windowValues(state.History, loop.TransformConfig.WindowSize)
		if len(window) == 0 {
			return x, nil
		}
		sum := x
		for _, v := range window {
			sum += v
		}
		return sum / float64(len(window)+1), nil

	case model.TransformExponential:
		alpha := loop.TransformConfig.Alpha
		if !state.HasPreviousSmoothed {
			state.PreviousSmoothed = x
			state.HasPreviousSmoothed = true
			return x, nil
		}
		smoothed := alpha*x + (1-alpha)*state.PreviousSmoothed
		state.PreviousSmoothed = smoothed
		return smoothed, nil

	case model.TransformPID:
		cfg := loop.TransformConfig
		dt := cfg.DT
		if dt == 0 {
			dt = 1
		}
		errVal := cfg.Setpoint - x
		state.PID.Integral += errVal * dt
		derivative := 0.0
		if state.PID.HasPrevious {
			derivative = (errVal - state.PID.PreviousErr) / dt
		}
		state.PID.PreviousErr = errVal
		state.PID.HasPrevious = true
		return cfg.Kp*errVal + cfg.Ki*state.PID.Integral + cfg.Kd*derivative, nil

	case model.TransformCustom:
		return evalCustom(loop, x, evalCtx)

	default:
		return x, nil
	}
}

func evalCustom(loop *model.FeedbackLoop, x float64, evalCtx *expr.ExpressionContext) (float64, error) {
	ast, perr := expr.Parse(loop.CustomExpr)
	if perr != nil {
		return 0, perr
	}
	augmented := evalCtx.Clone()
	augmented.Params = withFeedbackValue(evalCtx.Params, x)
	v, err := expr.Evaluate(ast, augmented)
	if err != nil {
		return 0, err
	}
	return v.ToNumber(), nil
}

// withFeedbackValue layers $feedbackValue onto the params object so a
// custom expression can read it as `$params.feedbackValue` — the
// evaluator has no standalone `$feedbackValue` variable slot, so the
// custom transform's "context augmented with $feedbackValue" is
// realized this way.
func withFeedbackValue(params expr.Value, x float64) expr.Value {
	fields := make(map[string]expr.Value)
	if params.Kind() == expr.KindObject {
		for k, v := range params.Fields() {
			fields[k] = v
		}
	}
	fields["feedbackValue"] = expr.Number(x)
	return expr.Object(fields)
}
