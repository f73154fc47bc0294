package catalog

// Residue coefficients for the crops of the observed production and
// harvested-area catalogs.
var historicalRows = []Row{
	{Crop: "Banana", Residue: "leaves", RPR: 0.35, SAF: 0.9, LHV: 11.745},
	{Crop: "Banana", Residue: "peels", RPR: 0.25, SAF: 1, LHV: 14.78},
	{Crop: "Banana", Residue: "stem", RPR: 4.90, SAF: 0.9, LHV: 11.66},
	{Crop: "Barley", Residue: "stalk", RPR: 1.60, SAF: 0.60, LHV: 18.5},
	{Crop: "Barley", Residue: "straw", RPR: 0.75, SAF: 0.15, LHV: 17.5},
	{Crop: "Cassava", Residue: "Peelings", RPR: 3, SAF: 0.2, LHV: 10.61},
	{Crop: "Cassava", Residue: "Stalk", RPR: 0.062, SAF: 0.407, LHV: 16.99},
	{Crop: "Cotton", Residue: "stalk", RPR: 2.1, SAF: 1, LHV: 15.9},
	{Crop: "Fodder crops", Residue: "straw", RPR: 0.4, SAF: 0, LHV: 0},
	{Crop: "Fruits and nuts", Residue: "Pruning", RPR: 0, SAF: 0, LHV: 0},
	{Crop: "Groundnut", Residue: "Shells/husks", RPR: 0.477, SAF: 1, LHV: 15.56},
	{Crop: "Groundnut", Residue: "Straw", RPR: 2.3, SAF: 1, LHV: 17.58},
	{Crop: "Maize", Residue: "Cob", RPR: 0.273, SAF: 1, LHV: 16.63},
	{Crop: "Maize", Residue: "Husk", RPR: 0.2, SAF: 1, LHV: 15.56},
	{Crop: "Maize", Residue: "Stalk", RPR: 2, SAF: 0.8, LHV: 16.3},
	{Crop: "Millet", Residue: "Stalk", RPR: 1.75, SAF: 0.8, LHV: 15.51},
	{Crop: "Millet", Residue: "Straw", RPR: 1.4, SAF: 1, LHV: 13},
	{Crop: "Other cereals", Residue: "straw", RPR: 1.2, SAF: 0.40, LHV: 16.845},
	{Crop: "Oil palm", Residue: "Empty bunches", RPR: 0.428, SAF: 1, LHV: 19.41},
	{Crop: "Oil palm", Residue: "Fiber", RPR: 0.147, SAF: 1, LHV: 19.94},
	{Crop: "Oil palm", Residue: "Fronds", RPR: 2.604, SAF: 1, LHV: 7.97},
	{Crop: "Oil palm", Residue: "Male bunches", RPR: 0.233, SAF: 1, LHV: 14.86},
	{Crop: "Oil palm", Residue: "Shells", RPR: 0.049, SAF: 1, LHV: 21.1},
	{Crop: "Olive", Residue: "Cake", RPR: 0.4, SAF: 0.9, LHV: 19.7},
	{Crop: "Potato and Sweet Potato", Residue: "Peelings", RPR: 0.675, SAF: 0.8, LHV: 10.61},
	{Crop: "Pulses", Residue: "stalk", RPR: 1.78, SAF: 0.504, LHV: 15.53},
	{Crop: "Rapeseed", Residue: "straw", RPR: 1.58, SAF: 0.23, LHV: 14.55},
	{Crop: "Wetland rice", Residue: "Husk", RPR: 0.23, SAF: 0.83, LHV: 12.9},
	{Crop: "Wetland rice", Residue: "Straw", RPR: 1.757, SAF: 0.684, LHV: 8.83},
	{Crop: "Sorghum", Residue: "Husk", RPR: 1.4, SAF: 1, LHV: 13},
	{Crop: "Sorghum", Residue: "Straw", RPR: 1.25, SAF: 0.8, LHV: 12.38},
	{Crop: "Soybean", Residue: "Pods", RPR: 1, SAF: 0.8, LHV: 18},
	{Crop: "Soybean", Residue: "Straw", RPR: 2.66, SAF: 0.8, LHV: 18},
	{Crop: "Stimulants", Residue: "husks", RPR: 1, SAF: 1, LHV: 14.14},
	{Crop: "Sugarcane", Residue: "baggase", RPR: 0.25, SAF: 1, LHV: 6.43},
	{Crop: "Sugarcane", Residue: "tops/leaves", RPR: 0.32, SAF: 0.8, LHV: 15.8},
	{Crop: "Sugarbeet", Residue: "residue", RPR: 0.66, SAF: 0.09, LHV: 20.85},
	{Crop: "Sunflower", Residue: "stalk", RPR: 2.50, SAF: 0.60, LHV: 14.2},
	{Crop: "Tobacco", Residue: "stalk", RPR: 1.20, SAF: 0.60, LHV: 16.1},
	{Crop: "Vegetables", Residue: "residue", RPR: 0.675, SAF: 0.50, LHV: 12.625},
	{Crop: "Wheat", Residue: "Husk", RPR: 0.23, SAF: 0.29, LHV: 12.9},
	{Crop: "Wheat", Residue: "Straw", RPR: 1.2, SAF: 0.29, LHV: 15.6},
	{Crop: "Yams and other roots", Residue: "Peelings", RPR: 0.2, SAF: 0.8, LHV: 10.61},
	{Crop: "Rest of crops", Residue: "Residue", RPR: 0, SAF: 0, LHV: 0},
}

// Residue coefficients for the crops of the potential-yield catalog.
// Jatropha tegument carries SAF 10.8 as published.
var potentialRows = []Row{
	{Crop: "Alfalfa", Residue: "residue", RPR: 0.25, SAF: 0.0, LHV: 0.0},
	{Crop: "Banana", Residue: "leaves", RPR: 0.35, SAF: 0.9, LHV: 11.745},
	{Crop: "Banana", Residue: "peels", RPR: 0.25, SAF: 1, LHV: 14.78},
	{Crop: "Banana", Residue: "stem", RPR: 4.90, SAF: 0.9, LHV: 11.66},
	{Crop: "Barley", Residue: "stalk", RPR: 1.60, SAF: 0.60, LHV: 18.5},
	{Crop: "Barley", Residue: "straw", RPR: 0.75, SAF: 0.15, LHV: 17.5},
	{Crop: "Biomass highland sorghum", Residue: "Husk", RPR: 1.4, SAF: 1, LHV: 13},
	{Crop: "Biomass highland sorghum", Residue: "Straw", RPR: 1.25, SAF: 0.8, LHV: 12.38},
	{Crop: "Biomass lowland sorghum", Residue: "Husk", RPR: 1.4, SAF: 1, LHV: 13},
	{Crop: "Biomass lowland sorghum", Residue: "Straw", RPR: 1.25, SAF: 0.8, LHV: 12.38},
	{Crop: "Biomass sorghum", Residue: "Husk", RPR: 1.4, SAF: 1, LHV: 13},
	{Crop: "Biomass sorghum", Residue: "Straw", RPR: 1.25, SAF: 0.8, LHV: 12.38},
	{Crop: "Biomass temperate sorghum", Residue: "Husk", RPR: 1.4, SAF: 1, LHV: 13},
	{Crop: "Biomass temperate sorghum", Residue: "Straw", RPR: 1.25, SAF: 0.8, LHV: 12.38},
	{Crop: "Buckwheat", Residue: "straw", RPR: 1.2, SAF: 0.40, LHV: 16.845},
	{Crop: "Cabbage", Residue: "residue", RPR: 0.675, SAF: 0.50, LHV: 12.625},
	{Crop: "Carrot", Residue: "residue", RPR: 0.675, SAF: 0.50, LHV: 12.625},
	{Crop: "Cassava", Residue: "Peelings", RPR: 3, SAF: 0.2, LHV: 10.61},
	{Crop: "Cassava", Residue: "Stalk", RPR: 0.062, SAF: 0.407, LHV: 16.99},
	{Crop: "Chickpea", Residue: "stalk", RPR: 1.78, SAF: 0.504, LHV: 15.53},
	{Crop: "Citrus", Residue: "prunings", RPR: 0.29, SAF: 0.80, LHV: 17.85},
	{Crop: "Cocoa", Residue: "pods/husks", RPR: 1, SAF: 1, LHV: 15.48},
	{Crop: "Cocoa cumoun", Residue: "pods/husks", RPR: 1, SAF: 1, LHV: 15.48},
	{Crop: "Cocoa hybrid", Residue: "pods/husks", RPR: 1, SAF: 1, LHV: 15.48},
	{Crop: "Coconut", Residue: "husk", RPR: 1.03, SAF: 1, LHV: 18.6},
	{Crop: "Coconut", Residue: "coir dust", RPR: 0.62, SAF: 1, LHV: 13.4},
	{Crop: "Cocoyam", Residue: "Peelings", RPR: 0.2, SAF: 0.8, LHV: 10.61},
	{Crop: "Coffee", Residue: "husk", RPR: 1, SAF: 1, LHV: 12.8},
	{Crop: "Coffee arabica", Residue: "husk", RPR: 1, SAF: 1, LHV: 12.8},
	{Crop: "Coffee robusta", Residue: "husk", RPR: 1, SAF: 1, LHV: 12.8},
	{Crop: "Cotton", Residue: "stalk", RPR: 2.1, SAF: 1, LHV: 15.9},
	{Crop: "Cowpea", Residue: "stalk", RPR: 1.78, SAF: 0.504, LHV: 15.53},
	{Crop: "Dry pea", Residue: "stalk", RPR: 1.78, SAF: 0.504, LHV: 15.53},
	{Crop: "Dryland rice", Residue: "Husk", RPR: 0.23, SAF: 0.83, LHV: 12.9},
	{Crop: "Dryland rice", Residue: "Straw", RPR: 1.757, SAF: 0.684, LHV: 8.83},
	{Crop: "Flax", Residue: "stalk", RPR: 2.5, SAF: 0.6, LHV: 14.2},
	{Crop: "Foxtail millet", Residue: "Stalk", RPR: 1.75, SAF: 0.8, LHV: 15.51},
	{Crop: "Foxtail millet", Residue: "Straw", RPR: 1.4, SAF: 1, LHV: 13},
	{Crop: "Gram", Residue: "stalk", RPR: 1.1, SAF: 0.38, LHV: 16.02},
	{Crop: "Grass", Residue: "straw", RPR: 0.4, SAF: 0, LHV: 0},
	{Crop: "Greater yam", Residue: "Peelings", RPR: 0.2, SAF: 0.8, LHV: 10.61},
	{Crop: "Groundnut", Residue: "Shells/husks", RPR: 0.477, SAF: 1, LHV: 15.56},
	{Crop: "Groundnut", Residue: "Straw", RPR: 2.3, SAF: 1, LHV: 17.58},
	{Crop: "Highland maize", Residue: "Cob", RPR: 0.273, SAF: 1, LHV: 16.63},
	{Crop: "Highland maize", Residue: "Husk", RPR: 0.2, SAF: 1, LHV: 15.56},
	{Crop: "Highland maize", Residue: "Stalk", RPR: 2, SAF: 0.8, LHV: 16.3},
	{Crop: "Highland sorghum", Residue: "Husk", RPR: 1.4, SAF: 1, LHV: 13},
	{Crop: "Highland sorghum", Residue: "Straw", RPR: 1.25, SAF: 0.8, LHV: 12.38},
	{Crop: "Jatropha", Residue: "Woody Biomass", RPR: 0.25, SAF: 0.8, LHV: 15.5},
	{Crop: "Jatropha", Residue: "Leaves", RPR: 0.25, SAF: 0.8, LHV: 12},
	{Crop: "Jatropha", Residue: "Pericarp", RPR: 0.20, SAF: 0.8, LHV: 10},
	{Crop: "Jatropha", Residue: "Tegument", RPR: 0, SAF: 10.8, LHV: 16.9},
	{Crop: "Jatropha", Residue: "Endosperm Cake", RPR: 0.2, SAF: 0.8, LHV: 13.6},
	{Crop: "Lowland maize", Residue: "Cob", RPR: 0.273, SAF: 1, LHV: 16.63},
	{Crop: "Lowland maize", Residue: "Husk", RPR: 0.2, SAF: 1, LHV: 15.56},
	{Crop: "Lowland maize", Residue: "Stalk", RPR: 2, SAF: 0.8, LHV: 16.3},
	{Crop: "Lowland sorghum", Residue: "Husk", RPR: 1.4, SAF: 1, LHV: 13},
	{Crop: "Lowland sorghum", Residue: "Straw", RPR: 1.25, SAF: 0.8, LHV: 12.38},
	{Crop: "Maize", Residue: "Cob", RPR: 0.273, SAF: 1, LHV: 16.63},
	{Crop: "Maize", Residue: "Husk", RPR: 0.2, SAF: 1, LHV: 15.56},
	{Crop: "Maize", Residue: "Stalk", RPR: 2, SAF: 0.8, LHV: 16.3},
	{Crop: "Millet", Residue: "Stalk", RPR: 1.75, SAF: 0.8, LHV: 15.51},
	{Crop: "Millet", Residue: "Straw", RPR: 1.4, SAF: 1, LHV: 13},
	{Crop: "Miscanthus", Residue: "residue", RPR: 0.42, SAF: 1, LHV: 17.44},
	{Crop: "Napier grass", Residue: "straw", RPR: 0.4, SAF: 0, LHV: 0},
	{Crop: "Oat", Residue: "straw", RPR: 1.15, SAF: 0.4, LHV: 18.45},
	{Crop: "Oil palm", Residue: "Empty bunches", RPR: 0.428, SAF: 1, LHV: 19.41},
	{Crop: "Oil palm", Residue: "Fiber", RPR: 0.147, SAF: 1, LHV: 19.94},
	{Crop: "Oil palm", Residue: "Fronds", RPR: 2.604, SAF: 1, LHV: 7.97},
	{Crop: "Oil palm", Residue: "Male bunches", RPR: 0.233, SAF: 1, LHV: 14.86},
	{Crop: "Oil palm", Residue: "Shells", RPR: 0.049, SAF: 1, LHV: 21.1},
	{Crop: "Olive", Residue: "cake", RPR: 0.4, SAF: 0.9, LHV: 19.7},
	{Crop: "Onion", Residue: "residue", RPR: 0.675, SAF: 0.5, LHV: 12.625},
	{Crop: "Para rubber", Residue: "residue", RPR: 0, SAF: 0, LHV: 0},
	{Crop: "Pasture legumes", Residue: "stalk", RPR: 0, SAF: 0, LHV: 0},
	{Crop: "Pearl millet", Residue: "Stalk", RPR: 1.75, SAF: 0.8, LHV: 15.51},
	{Crop: "Pearl millet", Residue: "Straw", RPR: 1.4, SAF: 1, LHV: 13},
	{Crop: "Phaseolus bean", Residue: "stalk", RPR: 1.78, SAF: 0.504, LHV: 15.53},
	{Crop: "Pigeonpea", Residue: "stalk", RPR: 1.78, SAF: 0.504, LHV: 15.53},
	{Crop: "Rapeseed", Residue: "straw", RPR: 1.58, SAF: 0.23, LHV: 14.55},
	{Crop: "Reed canary grass", Residue: "straw", RPR: 0.4, SAF: 0, LHV: 0},
	{Crop: "Rye", Residue: "straw", RPR: 1.25, SAF: 0.4, LHV: 15.24},
	{Crop: "Silage maize", Residue: "Cob", RPR: 0.273, SAF: 1, LHV: 16.63},
	{Crop: "Silage maize", Residue: "Husk", RPR: 0.2, SAF: 1, LHV: 15.56},
	{Crop: "Silage maize", Residue: "Stalk", RPR: 2, SAF: 0.8, LHV: 16.3},
	{Crop: "Sorghum", Residue: "Husk", RPR: 1.4, SAF: 1, LHV: 13},
	{Crop: "Sorghum", Residue: "Straw", RPR: 1.25, SAF: 0.8, LHV: 12.38},
	{Crop: "Soybean", Residue: "Pods", RPR: 1, SAF: 0.8, LHV: 18},
	{Crop: "Soybean", Residue: "Straw", RPR: 2.66, SAF: 0.8, LHV: 18},
	{Crop: "Spring barley", Residue: "stalk", RPR: 1.6, SAF: 0.6, LHV: 18.5},
	{Crop: "Spring barley", Residue: "straw", RPR: 0.75, SAF: 0.15, LHV: 17.5},
	{Crop: "Spring rye", Residue: "straw", RPR: 1.25, SAF: 0.4, LHV: 15.24},
	{Crop: "Spring wheat", Residue: "Husk", RPR: 0.23, SAF: 0.29, LHV: 12.9},
	{Crop: "Spring wheat", Residue: "Straw", RPR: 1.2, SAF: 0.29, LHV: 15.6},
	{Crop: "Sugarbeet", Residue: "residue", RPR: 0.66, SAF: 0.09, LHV: 0},
	{Crop: "Sugar Cane", Residue: "baggase", RPR: 0.25, SAF: 1, LHV: 6.43},
	{Crop: "Sugar Cane", Residue: "tops/leaves", RPR: 0.32, SAF: 0.8, LHV: 15.8},
	{Crop: "Sunflower", Residue: "stalk", RPR: 2.5, SAF: 0.6, LHV: 14.2},
	{Crop: "Sweet potato", Residue: "Peelings", RPR: 0.6, SAF: 0.8, LHV: 10.61},
	{Crop: "Switchgrass", Residue: "straw", RPR: 0.4, SAF: 0, LHV: 0},
	{Crop: "Tea", Residue: "husks", RPR: 1, SAF: 1, LHV: 14.14},
	{Crop: "Temperate maize", Residue: "Cob", RPR: 0.273, SAF: 1, LHV: 16.63},
	{Crop: "Temperate maize", Residue: "Husk", RPR: 0.2, SAF: 1, LHV: 15.56},
	{Crop: "Temperate maize", Residue: "Stalk", RPR: 2, SAF: 0.8, LHV: 16.3},
	{Crop: "Temperate sorghum", Residue: "Husk", RPR: 1.4, SAF: 1, LHV: 13},
	{Crop: "Temperate sorghum", Residue: "Straw", RPR: 1.25, SAF: 0.8, LHV: 12.38},
	{Crop: "Tobacco", Residue: "stalk", RPR: 1.2, SAF: 0.6, LHV: 16.1},
	{Crop: "Tomato", Residue: "stem", RPR: 0.3, SAF: 0.5, LHV: 13.7},
	{Crop: "Tomato", Residue: "leaves", RPR: 0.3, SAF: 0.5, LHV: 13.7},
	{Crop: "Wetland rice", Residue: "Husk", RPR: 0.23, SAF: 0.83, LHV: 12.9},
	{Crop: "Wetland rice", Residue: "Straw", RPR: 1.757, SAF: 0.684, LHV: 8.83},
	{Crop: "Wheat", Residue: "Husk", RPR: 0.23, SAF: 0.29, LHV: 12.9},
	{Crop: "Wheat", Residue: "Straw", RPR: 1.2, SAF: 0.29, LHV: 15.6},
	{Crop: "White potato", Residue: "Peelings", RPR: 0.75, SAF: 0.8, LHV: 10.61},
	{Crop: "White yam", Residue: "Peelings", RPR: 0.2, SAF: 0.8, LHV: 10.61},
	{Crop: "Winter barley", Residue: "stalk", RPR: 1.6, SAF: 0.6, LHV: 18.5},
	{Crop: "Winter barley", Residue: "straw", RPR: 0.75, SAF: 0.15, LHV: 17.5},
	{Crop: "Winter rye", Residue: "straw", RPR: 1.25, SAF: 0.4, LHV: 15.24},
	{Crop: "Winter wheat", Residue: "Husk", RPR: 0.23, SAF: 0.29, LHV: 12.9},
	{Crop: "Winter wheat", Residue: "Straw", RPR: 1.2, SAF: 0.29, LHV: 15.6},
	{Crop: "Yam", Residue: "Peelings", RPR: 0.2, SAF: 0.8, LHV: 10.61},
	{Crop: "Yellow yam", Residue: "Peelings", RPR: 0.2, SAF: 0.8, LHV: 10.61},
}

// DefaultHistorical is the coefficient table for observed production.
func DefaultHistorical() *Table { return mustTable(historicalRows) }

// DefaultPotential is the coefficient table for potential yields.
func DefaultPotential() *Table { return mustTable(potentialRows) }
