package main

import (
	"context"
	"fmt"

	"github.com/davecharm16/startpoint-academics-sub001/internal/codes"
	"github.com/davecharm16/startpoint-academics-sub001/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var referralCommand = &cli.Command{
	Name:      "referral",
	Usage:     "Assign a unique referral code to a profile",
	ArgsUsage: "<profile-id>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "force",
			Usage: "Replace an existing referral code",
		},
	},
	Action: func(c *cli.Context) error {
		profileID := c.Args().First()
		if profileID == "" {
			return fmt.Errorf("profile id is required")
		}

		ctx := context.Background()

		d, err := loadDeps(ctx, logrus.StandardLogger())
		if err != nil {
			return err
		}
		defer d.Close()

		profile, err := d.profiles.Profile(ctx, profileID)
		if err != nil {
			return err
		}

		if profile.ReferralCode != nil && !c.Bool("force") {
			fmt.Println(*profile.ReferralCode)
			return nil
		}

		name := utils.PtrString(profile.FullName)
		existing, err := d.profiles.ReferralCodesWithPrefix(ctx, codes.ReferralPrefix(name))
		if err != nil {
			return err
		}

		code := codes.GenerateUniqueReferralCode(name, existing)
		if err := d.profiles.SetReferralCode(ctx, profile.ID, code); err != nil {
			return err
		}

		fmt.Println(code)
		return nil
	},
}
