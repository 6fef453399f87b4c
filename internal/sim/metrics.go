package sim

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	commands     *prometheus.CounterVec
	poseRequests prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, odo *Odometry) *metrics {
	m := &metrics{
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pathpilot_sim_commands_total",
				Help: "Commands received by the simulator.",
			},
			[]string{"cmd", "status"}, // status: accepted/rejected
		),
		poseRequests: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pathpilot_sim_pose_requests_total",
				Help: "Pose requests served by the simulator.",
			},
		),
	}
	reg.MustRegister(
		m.commands,
		m.poseRequests,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "pathpilot_sim_pose_x_meters",
			Help: "Simulated x position.",
		}, func() float64 { return odo.Pose().X }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "pathpilot_sim_pose_y_meters",
			Help: "Simulated y position.",
		}, func() float64 { return odo.Pose().Y }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "pathpilot_sim_heading_degrees",
			Help: "Simulated heading, counter-clockwise from +x.",
		}, odo.Heading),
	)
	return m
}
