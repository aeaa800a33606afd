package registry

// defaultClasses is the seed table of curated liquid classes, taken from the
// reference handling data. Values are µL/s for rates, seconds for delays,
// mm/s for withdrawal.
func defaultClasses() []LiquidClass {
	return []LiquidClass{
		// P20
		{DeviceP20, SubstanceGlycerol10, 6.804, 2.0, 5.0, 6.804, 2.0, 0.5, false},
		{DeviceP20, SubstanceGlycerol90, 5.292, 7.0, 2.0, 5.292, 7.0, 0.5, false},
		{DeviceP20, SubstanceGlycerol99, 3.78, 10.0, 2.0, 3.78, 10.0, 0.5, false},
		{DeviceP20, SubstancePEG800050, 6.048, 7.0, 5.0, 6.048, 7.0, 0.5, false},
		{DeviceP20, SubstanceSanitizer62, 1.0, 2.0, 20.0, 3.78, 2.0, 0.5, true},
		{DeviceP20, SubstanceTween20100, 5.292, 7.0, 2.0, 3.024, 7.0, 0.5, true},
		{DeviceP20, SubstanceEngineOil100, 6.048, 7.0, 1.0, 6.048, 7.0, 0.5, true},

		// P300
		{DeviceP300, SubstanceGlycerol10, 83.25, 2.0, 5.0, 83.25, 2.0, 10.0, false},
		{DeviceP300, SubstanceGlycerol90, 64.75, 8.0, 1.0, 64.75, 8.0, 4.0, false},
		{DeviceP300, SubstanceGlycerol99, 55.5, 10.0, 1.0, 55.5, 10.0, 4.0, false},
		{DeviceP300, SubstancePEG800050, 74.0, 6.0, 4.0, 74.0, 74.0, 4.0, false},
		{DeviceP300, SubstanceSanitizer62, 92.5, 2.0, 20.0, 92.5, 2.0, 4.0, true},
		{DeviceP300, SubstanceTween20100, 13.9, 10.0, 1.0, 13.9, 11.0, 7.0, true},
		{DeviceP300, SubstanceEngineOil100, 74.0, 3.0, 2.0, 46.25, 7.0, 10.0, true},

		// P1000
		{DeviceP1000, SubstanceGlycerol10, 247.05, 2.0, 30.0, 247.05, 2.0, 75.0, false},
		{DeviceP1000, SubstanceGlycerol50, 247.05, 3.0, 30.0, 247.05, 3.0, 75.0, false},
		{DeviceP1000, SubstanceGlycerol90, 164.7, 10.0, 3.0, 109.8, 10.0, 15.0, false},
		{DeviceP1000, SubstanceGlycerol99, 41.175, 20.0, 4.0, 19.215, 20.0, 5.0, false},
	}
}

// FallbackReference is the generic starting point used when no curated class
// exists for a device/substance pair.
func FallbackReference() LiquidClass {
	return LiquidClass{
		Device:                   DeviceP1000,
		Substance:                SubstanceWater,
		AspirationRate:           150.0,
		AspirationDelay:          1.0,
		AspirationWithdrawalRate: 5.0,
		DispenseRate:             150.0,
		DispenseDelay:            1.0,
		BlowoutRate:              100.0,
		TouchTip:                 true,
	}
}
