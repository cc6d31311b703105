package core

// Reference describes one lookup table of the plant hierarchy that readings
// point into.
type Reference struct {
	Name   string // short label used in logs: "sensor", "controller", ...
	Table  string // table name inside the readings schema
	Column string // identifier column
}

// The plant hierarchy as stored in the reference schema.
var (
	RefFactory    = Reference{Name: "factory", Table: "fabrica", Column: ColFactoryID}
	RefLine       = Reference{Name: "line", Table: "linea", Column: ColLineID}
	RefController = Reference{Name: "controller", Table: "microcontrolador", Column: ColControllerID}
	RefSensor     = Reference{Name: "sensor", Table: "sensor", Column: ColSensorID}
)

// References lists the reference tables in the order they are checked.
var References = []Reference{RefSensor, RefController, RefLine, RefFactory}

// ID returns the identifier eq holds for ref.
func (eq Equipment) ID(ref Reference) string {
	switch ref.Name {
	case RefSensor.Name:
		return eq.SensorID
	case RefController.Name:
		return eq.ControllerID
	case RefLine.Name:
		return eq.LineID
	case RefFactory.Name:
		return eq.FactoryID
	default:
		return ""
	}
}
