package impact

import "github.com/sells-group/impact-cli/internal/model"

// Service capacities of the local network and the share of each that can be
// consumed before an upgrade is planned.
const (
	WaterMainCapacityGPD   = 50000.0
	SewerLineCapacityGPD   = 45000.0
	SubstationCapacityKW   = 1000.0
	WaterUpgradeThreshold  = 0.7
	SewerUpgradeThreshold  = 0.7
	PowerUpgradeThreshold  = 0.8
	SewerReturnRatio       = 0.8
	PowerKWPerUnit         = 2.5
	WaterMainUpgradeCost   = 500000.0
	SewerLineUpgradeCost   = 750000.0
	ElectricalUpgradeCost  = 300000.0
	waterUpgradeMessage    = "Water main upgrade required"
	sewerUpgradeMessage    = "Sewer line expansion needed"
	electricUpgradeMessage = "Electrical service upgrade required"
)

// InfrastructureImpact computes utility demand and the upgrades it triggers.
// Each upgrade fires when demand is strictly above its threshold share of
// capacity; costs add up independently.
func InfrastructureImpact(units int, p Params) model.InfrastructureImpact {
	water := float64(units) * p.WaterGPDPerUnit
	sewer := water * SewerReturnRatio
	power := float64(units) * PowerKWPerUnit

	upgrades := []string{}
	var cost float64
	if water > WaterMainCapacityGPD*WaterUpgradeThreshold {
		upgrades = append(upgrades, waterUpgradeMessage)
		cost += WaterMainUpgradeCost
	}
	if sewer > SewerLineCapacityGPD*SewerUpgradeThreshold {
		upgrades = append(upgrades, sewerUpgradeMessage)
		cost += SewerLineUpgradeCost
	}
	if power > SubstationCapacityKW*PowerUpgradeThreshold {
		upgrades = append(upgrades, electricUpgradeMessage)
		cost += ElectricalUpgradeCost
	}

	return model.InfrastructureImpact{
		WaterDemand:            water,
		SewerDemand:            sewer,
		PowerDemand:            power,
		UpgradesNeeded:         upgrades,
		EstimatedCost:          cost,
		InfrastructureAdequate: len(upgrades) == 0,
	}
}
